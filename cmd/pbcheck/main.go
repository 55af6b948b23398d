// Command pbcheck verifies a cutting-planes refutation or optimization
// proof against a pseudo-Boolean formula.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/gitrdm/pbcheck/pkg/format"
	"github.com/gitrdm/pbcheck/pkg/pbcheck"
)

// cli is the full flag surface, parsed by kong into a CheckerConfig and
// the two required positional file arguments.
var cli struct {
	Formula string `arg:"" help:"Path to the input formula (.opb or .cnf)."`
	Proof   string `arg:"" help:"Path to the proof text to verify."`

	FreeFormNames bool `help:"Accept arbitrary variable names instead of the positional x<N> form."`
	CoreOnlyRUP   bool `help:"Restrict RUP checks to core constraints only."`
	Verbose       bool `short:"v" help:"Enable debug-level trace logging."`
	Version       bool `help:"Print the checker version and exit."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("pbcheck"),
		kong.Description("Verify a cutting-planes proof over pseudo-Boolean constraints."),
		kong.UsageOnError(),
	)

	if cli.Version {
		fmt.Printf("pbcheck %s (proof format v%d)\n", pbcheck.Version, pbcheck.ProofFormatVersion)
		os.Exit(int(pbcheck.ExitSuccess))
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cli.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	code := run(log)
	os.Exit(int(code))
}

func run(log *logrus.Logger) pbcheck.ExitCode {
	cfg := pbcheck.DefaultCheckerConfig()
	cfg.FreeFormNames = cli.FreeFormNames
	cfg.StrictCoreOnlyRUP = cli.CoreOnlyRUP
	cfg.Logger = log
	cfg.Warnings = os.Stderr

	v := pbcheck.NewVerifier(cfg)

	formulaFile, err := os.Open(cli.Formula)
	if err != nil {
		log.WithError(err).Error("cannot open formula")
		return pbcheck.ExitParseError
	}
	defer formulaFile.Close()

	var parsed *format.Formula
	if strings.EqualFold(filepath.Ext(cli.Formula), ".cnf") {
		parsed, err = format.ParseCNF(formulaFile, v.Registry)
	} else {
		parsed, err = format.ParseOPB(formulaFile, v.Registry)
	}
	if err != nil {
		log.WithError(err).Error("failed to parse formula")
		return pbcheck.ExitCodeFor(err)
	}
	v.LoadFormulaData(parsed.Constraints, parsed.Objective)
	log.WithField("constraints", len(parsed.Constraints)).Debug("formula loaded")

	proofFile, err := os.Open(cli.Proof)
	if err != nil {
		log.WithError(err).Error("cannot open proof")
		return pbcheck.ExitParseError
	}
	defer proofFile.Close()

	scanner := format.NewProofScanner(proofFile)
	checkedVersion := false
	for {
		line, ok, err := scanner.Next()
		if err != nil {
			log.WithError(err).Error("failed to read proof")
			return pbcheck.ExitParseError
		}
		if !ok {
			break
		}
		if !checkedVersion {
			checkedVersion = true
			if declared := scanner.Version(); declared > pbcheck.ProofFormatVersion {
				log.Errorf("proof declares format version %d, this build supports up to %d", declared, pbcheck.ProofFormatVersion)
				return pbcheck.ExitUnimplementedRule
			}
		}
		log.WithFields(logrus.Fields{"line": line.LineNo, "rule": line.Rule}).Debug("verifying step")
		if err := v.Step(line); err != nil {
			log.WithError(err).Errorf("proof verification failed at line %d", line.LineNo)
			return pbcheck.ExitCodeFor(err)
		}
	}

	if err := v.Finish(); err != nil {
		log.WithError(err).Error("proof verification failed")
		return pbcheck.ExitCodeFor(err)
	}

	if !v.Concluded() {
		log.Error("proof ended without a concluding step")
		return pbcheck.ExitInvalidProof
	}

	log.Info("proof verified")
	return pbcheck.ExitSuccess
}
