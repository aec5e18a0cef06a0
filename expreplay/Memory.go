package expreplay

import (
	"github.com/aunum/log"
	"github.com/c2h5oh/datasize"
	"github.com/shirou/gopsutil/v3/mem"
)

// bytesPerFloat is the size of each element stored in a buffer
const bytesPerFloat = 8

// requiredBytes returns the number of bytes a buffer of the given
// dimensions allocates
func requiredBytes(capacity, featureSize, actionSize int) uint64 {
	perSlot := featureSize + actionSize + 2 // reward and done
	return uint64(capacity) * uint64(perSlot) * bytesPerFloat
}

// checkSystemMemory warns if a buffer needing required bytes would not
// fit into the memory currently available on the system. Failing to
// read the system memory is not an error.
func checkSystemMemory(required uint64) bool {
	vm, err := mem.VirtualMemory()
	if err != nil {
		log.Debugf("expreplay: could not read system memory: %v", err)
		return true
	}

	if required > vm.Available {
		log.Warningf("expreplay: buffer requires %v but only %v of "+
			"system memory is available",
			datasize.ByteSize(required).HumanReadable(),
			datasize.ByteSize(vm.Available).HumanReadable())
		return false
	}
	return true
}
