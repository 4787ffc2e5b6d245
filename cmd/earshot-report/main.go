package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/automoto/earshot/assets"
	cfg "github.com/automoto/earshot/config"
	"github.com/automoto/earshot/scenes"
	"github.com/automoto/earshot/systems"
)

func main() {
	level := flag.String("level", cfg.Sim.DefaultLevel, "Level name under the embedded levels directory")
	ticks := flag.Int("ticks", 300, "Number of ticks to simulate")
	tps := flag.Int("tps", cfg.Sim.TicksPerSecond, "Ticks per second")
	cell := flag.Float64("cell", cfg.Grid.CellRadius, "Voxel cell radius")
	walk := flag.String("walk", "0,0,0", "Listener displacement per tick as dx,dy,dz")
	every := flag.Int("every", 30, "Print a report every N ticks")
	settingsApp := flag.String("settings-app", cfg.Sim.SettingsApp, "gdata app name for saved settings (empty disables)")
	metrics := flag.Bool("metrics", false, "Print engine metrics at the end")
	play := flag.Bool("audio", false, "Play sources through the audio device in real time")
	flag.Parse()

	walkVec, err := parseVec3(*walk)
	if err != nil {
		log.Fatalf("Invalid -walk: %v", err)
	}

	if *settingsApp != "" {
		if err := systems.InitPersistence(*settingsApp); err == nil {
			saved, _ := systems.LoadSettings()
			systems.ApplySavedSettingsGlobal(saved)
		}
	}
	if *play {
		cfg.Audio.Enabled = true
	}

	lvl, err := assets.LoadLevel(cfg.Sim.LevelsDir, *level)
	if err != nil {
		log.Fatalf("Failed to load level: %v", err)
	}

	var reg *prometheus.Registry
	opts := scenes.Options{
		TicksPerSecond: *tps,
		CellRadius:     *cell,
		Walk:           walkVec,
		Audio:          *play,
	}
	if *metrics {
		reg = prometheus.NewRegistry()
		opts.Registerer = reg
	}

	sim, err := scenes.NewSimulation(lvl, opts)
	if err != nil {
		log.Fatalf("Failed to build simulation: %v", err)
	}

	log.Printf("Simulating %q for %d ticks at %d/s (cell radius %.0f, %d sources)",
		lvl.Name, *ticks, *tps, *cell, len(lvl.Sources))

	report := func(s *scenes.Simulation) {
		snap := s.Snapshot()
		if *every > 0 && snap.Tick%*every == 0 {
			printSnapshot(snap)
		}
	}

	if *play {
		loop := scenes.NewLoop(sim, *tps, report)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			loop.Stop()
		}()
		loop.Run(*ticks)
	} else {
		for i := 0; i < *ticks; i++ {
			sim.Update()
			report(sim)
		}
	}

	systems.SaveCurrentSettings(sim.ECS())

	if reg != nil {
		if err := printMetrics(reg); err != nil {
			log.Fatalf("Failed to print metrics: %v", err)
		}
	}
}

func printSnapshot(snap scenes.Snapshot) {
	fmt.Printf("tick %d (%.2fs) listener %s in-range=%d occluded=%d skipped=%d\n",
		snap.Tick, snap.Elapsed, formatVec(snap.Listener),
		snap.Occlusion.InRange, snap.Occlusion.Occluded, snap.Occlusion.Skipped)
	for _, src := range snap.Sources {
		line := fmt.Sprintf("  %-12s vol=%.3f", src.Name, src.Volume)
		if src.LowPass {
			line += fmt.Sprintf(" lpf=%.0fHz", src.LowPassHz)
		}
		line += " " + src.State.String()
		if src.HasSecondary {
			line += fmt.Sprintf(" secondary %s vol=%.3f path=%d",
				formatVec(src.SecondaryPos), src.SecondaryVolume, src.PathLen)
		}
		fmt.Println(line)
	}
}

func printMetrics(reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(os.Stdout, mf); err != nil {
			return err
		}
	}
	return nil
}

func parseVec3(s string) (mgl64.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("want dx,dy,dz, got %q", s)
	}
	var v mgl64.Vec3
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return mgl64.Vec3{}, fmt.Errorf("component %d: %w", i, err)
		}
		v[i] = f
	}
	return v, nil
}

func formatVec(v mgl64.Vec3) string {
	return fmt.Sprintf("(%.0f,%.0f,%.0f)", v[0], v[1], v[2])
}
