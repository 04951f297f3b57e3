// Command riskcore evaluates a transfer request from a JSON file against
// the configured risk and compliance pipeline and prints the decision
// record as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/payrail/riskcore/internal/evaluator"
	"github.com/payrail/riskcore/pkg/errors"
	"github.com/payrail/riskcore/pkg/logger"
	"github.com/payrail/riskcore/pkg/models"
)

type input struct {
	Request  models.TransferRequest  `json:"request"`
	Security *models.SecurityContext `json:"security,omitempty"`
}

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration document (defaults built in)")
	inputPath := flag.String("input", "", "path to a JSON file with the transfer request")
	flag.Parse()

	if err := run(*configPath, *inputPath); err != nil {
		fmt.Fprintf(os.Stderr, "riskcore: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, inputPath string) error {
	cfg, err := evaluator.LoadConfig(configPath)
	if err != nil {
		return err
	}

	log, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	svc, err := evaluator.NewService(cfg, nil, log)
	if err != nil {
		return err
	}

	in, err := readInput(inputPath)
	if err != nil {
		return err
	}

	result, err := svc.EvaluateTransfer(context.Background(), in.Request, in.Security)
	if err != nil {
		if code := errors.CodeOf(err); code != "" {
			log.Warn("transfer rejected", zap.String("code", string(code)), zap.Error(err))
			return printJSON(map[string]any{"approved": false, "code": code, "error": err.Error()})
		}
		return err
	}
	return printJSON(result)
}

func readInput(path string) (*input, error) {
	if path == "" {
		return nil, fmt.Errorf("missing -input file")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input %s: %w", path, err)
	}
	var in input
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("decode input %s: %w", path, err)
	}
	return &in, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
