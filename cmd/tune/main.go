// Command tune searches the growth band (center and width) for settings
// that keep a pattern alive: mass stays above extinction and below
// takeover for as many steps as possible. The best settings are written
// as a profile the app can import.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/lenia/config"
	"github.com/pthm-cable/lenia/settings"
)

// evalRecord is one row of tune_log.csv.
type evalRecord struct {
	Eval         int     `csv:"eval"`
	Fitness      float64 `csv:"fitness"`
	Quality      float64 `csv:"quality"`
	GrowthCenter float64 `csv:"growth_center"`
	GrowthWidth  float64 `csv:"growth_width"`
}

// formatDuration formats a duration as MmSSs or HhMMmSSs.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	kernel := flag.String("kernel", "gaussian", "Kernel to tune for")
	pattern := flag.String("pattern", "orbium", "Seed pattern")
	gridSize := flag.Int("grid", 64, "Grid size (square)")
	radius := flag.Int("radius", 13, "Kernel radius")
	maxTicks := flag.Int64("max-ticks", 500, "Steps per run (cap)")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 60, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	methodName := flag.String("method", "cmaes", "Search method: cmaes or neldermead")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg.Engine.Workers = 1
	cfg.Derived.Workers = 1
	cfg.Screen.Width, cfg.Screen.Height = *gridSize, *gridSize
	cfg.Telemetry.StatsWindow = max(1, int(*maxTicks/20))

	// Sessions log their startup; keep only warnings from evaluations.
	slog.SetDefault(quietLogger(os.Stderr))

	params := NewParamVector()
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	base := map[string]any{
		settings.KeyKernelType:     *kernel,
		settings.KeyKernelRadius:   *radius,
		settings.KeyCurrentPattern: *pattern,
		settings.KeyGridSize:       *gridSize,
	}
	evaluator := NewFitnessEvaluator(params, *maxTicks, evalSeeds, cfg, base)

	method, popSize := searchMethod(*methodName, *population, params.Dim())

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Denormalize(x)
			fitness := evaluator.Evaluate(raw)
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = append([]float64(nil), raw...)
			}

			rec := []evalRecord{{
				Eval:         evalCount,
				Fitness:      fitness,
				Quality:      evaluator.LastQuality(),
				GrowthCenter: raw[0],
				GrowthWidth:  raw[1],
			}}
			var werr error
			if evalCount == 1 {
				werr = gocsv.Marshal(rec, logFile)
			} else {
				werr = gocsv.MarshalWithoutHeaders(rec, logFile)
			}
			if werr != nil {
				log.Printf("failed to log evaluation: %v", werr)
			}

			elapsed := time.Since(startTime)
			remaining := time.Duration(*maxEvals-evalCount) * (elapsed / time.Duration(evalCount))
			fmt.Printf("Eval %d/%d: mu=%.4f sigma=%.4f fitness=%.3f (best=%.3f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, raw[0], raw[1], fitness, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))
			return fitness
		},
	}

	fmt.Printf("Starting %s search: kernel=%s pattern=%s grid=%d population=%d max_evals=%d\n",
		*methodName, *kernel, *pattern, *gridSize, popSize, *maxEvals)

	initX := params.Normalize(params.DefaultVector())
	result, err := optimize.Minimize(problem, initX, &optimize.Settings{FuncEvaluations: *maxEvals}, method)
	if err != nil {
		log.Printf("search ended: %v", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Denormalize(result.X)
	}
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nSearch complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.3f\n", bestFitness)
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Key, bestParams[i])
	}

	profilePath := filepath.Join(*outputDir, "best_profile.yaml")
	if err := writeProfile(profilePath, base, params.Values(bestParams)); err != nil {
		log.Printf("failed to write best profile: %v", err)
	} else {
		fmt.Printf("\nBest profile saved to: %s\n", profilePath)
	}
}

func searchMethod(name string, population, dim int) (optimize.Method, int) {
	switch name {
	case "neldermead":
		return &optimize.NelderMead{}, dim + 1
	case "cmaes":
	default:
		log.Fatalf("unknown method %q", name)
	}
	if population == 0 {
		population = 4 + int(3.0*float64(dim)/2.0)
	}
	return &optimize.CmaEsChol{InitStepSize: 0.3, Population: population}, population
}

// writeProfile stores the full parameter set, defaults plus the tuned
// values, in the profile format the app imports.
func writeProfile(path string, base, tuned map[string]any) error {
	store := settings.Open(nil)
	defer store.Close()
	if err := store.Apply(base); err != nil {
		return err
	}
	if err := store.Apply(tuned); err != nil {
		return err
	}
	return store.ExportProfile(path)
}
