package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/guregu/null.v3"

	"cookieaudit/internal/descriptions"
	"cookieaudit/internal/domain"
	"cookieaudit/internal/protocol"
	"cookieaudit/internal/services/attribution"
	"cookieaudit/internal/services/classifier"
)

// classifiedLine is one output line of the classify command.
type classifiedLine struct {
	Code       string        `json:"code"`
	Title      string        `json:"title"`
	Kind       domain.Kind   `json:"kind"`
	ThirdParty bool          `json:"thirdParty"`
	PrimaryKey string        `json:"primaryKey"`
	Report     domain.Report `json:"report"`
}

func newClassifyCommand(logger func() (*logrus.Logger, error)) *cobra.Command {
	var topFrame string
	var strict bool
	cmd := &cobra.Command{
		Use:   "classify [file]",
		Short: "Classify newline-delimited protocol notifications from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger()
			if err != nil {
				return err
			}
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			var top null.String
			if cmd.Flags().Changed("top-frame") {
				d, err := attribution.RegistrableDomain(topFrame)
				if err != nil {
					return fmt.Errorf("invalid --top-frame: %w", err)
				}
				top = null.StringFrom(d)
			}
			return classifyStream(in, cmd.OutOrStdout(), top, strict, log)
		},
	}
	cmd.Flags().StringVar(&topFrame, "top-frame", "", "URL of the top-level page, used for third-party attribution")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on the first malformed line instead of skipping it")
	return cmd
}

func classifyStream(in io.Reader, out io.Writer, top null.String, strict bool, log logrus.FieldLogger) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	enc := json.NewEncoder(out)

	line, malformed := 0, 0
	for sc.Scan() {
		line++
		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		report, err := protocol.Decode(raw)
		if errors.Is(err, protocol.ErrNoCookieDetails) {
			log.WithField("line", line).Debug("skipping notification without same-site cookie details")
			continue
		}
		if err != nil {
			if strict {
				return fmt.Errorf("line %d: %w", line, err)
			}
			malformed++
			log.WithField("line", line).WithError(err).Warn("skipping malformed notification")
			continue
		}

		thirdParty := attribution.IsThirdParty(top, report.CookieURL)
		for _, issue := range classifier.Classify(report) {
			d := descriptions.For(issue.Code)
			if err := enc.Encode(classifiedLine{
				Code:       issue.Code,
				Title:      d.Title,
				Kind:       d.Kind,
				ThirdParty: thirdParty,
				PrimaryKey: issue.PrimaryKey(),
				Report:     issue.Report,
			}); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if malformed > 0 {
		log.WithField("count", malformed).Warn("malformed notifications skipped")
	}
	return nil
}
