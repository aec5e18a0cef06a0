package main

import (
	"encoding/json"
	"os"

	"github.com/LondonNode/Pearl/agent"
	"github.com/LondonNode/Pearl/agent/dqn"
	"github.com/LondonNode/Pearl/environment/envconfig"
	"github.com/LondonNode/Pearl/experiment"
	"github.com/LondonNode/Pearl/experiment/tracker"
	"github.com/aunum/log"
)

// defaultConfig returns the experiment run when no configuration file
// is given: DQN on a 10 cell corridor.
func defaultConfig() experiment.Config {
	c := dqn.DefaultConfig()
	c.Epsilon = 0.1
	c.StartSteps = 500

	return experiment.Config{
		Type:     experiment.OnlineExp,
		MaxSteps: 10_000,
		EnvConf: envconfig.Config{
			Environment:   envconfig.Corridor,
			Cells:         10,
			EpisodeCutoff: 100,
			Discount:      1.0,
		},
		AgentConf: agent.NewTypedConfig(c),
	}
}

func main() {
	var seed uint64 = 192382

	config := defaultConfig()
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			log.Fatalf("could not read config: %v", err)
		}
		if err := json.Unmarshal(data, &config); err != nil {
			log.Fatalf("could not parse config: %v", err)
		}
	}
	log.Infof("running %v for %v steps on %v", config.AgentConf.Type,
		config.MaxSteps, config.EnvConf.Environment)

	returns := tracker.NewReturn("return.bin", 100)
	lengths := tracker.NewEpisodeLength("length.bin")

	exp, err := config.CreateExp(seed, returns, lengths)
	if err != nil {
		log.Fatal(err)
	}
	if err := exp.Run(); err != nil {
		log.Fatal(err)
	}
	if err := exp.Save(); err != nil {
		log.Fatal(err)
	}

	log.Infof("finished %v episodes, average return of last 100: %.2f",
		returns.Episodes(), returns.MovingAverage())
}
