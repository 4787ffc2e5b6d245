package scenes

import (
	"log"
	"time"

	cfg "github.com/automoto/earshot/config"
)

// Loop steps a simulation in real time, which audible runs need.
type Loop struct {
	sim      *Simulation
	tickRate int
	onTick   func(*Simulation)
	stopChan chan struct{}
}

// NewLoop creates a loop. onTick, if set, runs after every tick.
func NewLoop(sim *Simulation, tickRate int, onTick func(*Simulation)) *Loop {
	if tickRate <= 0 {
		tickRate = cfg.Sim.TicksPerSecond
	}
	return &Loop{
		sim:      sim,
		tickRate: tickRate,
		onTick:   onTick,
		stopChan: make(chan struct{}),
	}
}

// Run ticks until Stop is called or ticks have elapsed. ticks <= 0 runs
// until stopped.
func (g *Loop) Run(ticks int) {
	ticker := time.NewTicker(time.Second / time.Duration(g.tickRate))
	defer ticker.Stop()

	log.Printf("Simulation loop started at %d ticks/second", g.tickRate)

	for n := 0; ticks <= 0 || n < ticks; n++ {
		select {
		case <-g.stopChan:
			log.Println("Simulation loop stopped")
			return
		case <-ticker.C:
			g.tick()
		}
	}
}

func (g *Loop) Stop() {
	close(g.stopChan)
}

func (g *Loop) tick() {
	g.sim.Update()
	if g.onTick != nil {
		g.onTick(g.sim)
	}
}
