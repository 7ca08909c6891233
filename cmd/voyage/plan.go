// README: plan command; generates one itinerary from flags and prints or saves it.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"voyage/internal/modules/itinerary"
	"voyage/internal/presets"
	"voyage/internal/service"
)

type planFlags struct {
	city      string
	interests string
	start     string
	end       string
	adults    int
	children  int
	preset    string
	out       string
	asJSON    bool
}

func newPlanCmd(a *app) *cobra.Command {
	var f planFlags

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate one itinerary",
		Example: `  voyage plan --city Paris --interests "museums, food" --start 2026-06-01 --end 2026-06-04
  voyage plan --preset Jaipur --start 2026-06-01 --end 2026-06-03 --out auto`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := f.request()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			eng, err := buildEngine(ctx, a.cfg, a.logger, false)
			if err != nil {
				return err
			}
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = eng.close(closeCtx)
			}()

			it, err := eng.planner.Plan(ctx, req)
			if err != nil {
				var perr *service.PlannerError
				if errors.As(err, &perr) {
					a.logger.Debug("plan failed", "stage", perr.Stage, "error", perr.Err)
					return fmt.Errorf("%s", perr.UserMessage())
				}
				return err
			}
			return f.write(cmd.OutOrStdout(), it)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.city, "city", "", "destination city")
	fl.StringVar(&f.interests, "interests", "", "comma separated interests")
	fl.StringVar(&f.start, "start", "", "start date (YYYY-MM-DD)")
	fl.StringVar(&f.end, "end", "", "end date (YYYY-MM-DD)")
	fl.IntVar(&f.adults, "adults", 1, "number of adults")
	fl.IntVar(&f.children, "children", 0, "number of children")
	fl.StringVar(&f.preset, "preset", "", "fill city and interests from a preset")
	fl.StringVar(&f.out, "out", "", `write the itinerary to a file; "auto" picks itinerary_<city>.txt`)
	fl.BoolVar(&f.asJSON, "json", false, "print JSON instead of text")
	return cmd
}

func (f planFlags) request() (service.Request, error) {
	city, interests := f.city, f.interests
	if f.preset != "" {
		p, ok := presets.Find(f.preset)
		if !ok {
			return service.Request{}, fmt.Errorf("unknown preset %q", f.preset)
		}
		if city == "" {
			city = p.City
		}
		if interests == "" {
			interests = p.Interests
		}
	}
	start, err := parseFlagDate("start", f.start)
	if err != nil {
		return service.Request{}, err
	}
	end, err := parseFlagDate("end", f.end)
	if err != nil {
		return service.Request{}, err
	}
	return service.Request{
		City:      city,
		Interests: interests,
		StartDate: start,
		EndDate:   end,
		Adults:    f.adults,
		Children:  f.children,
	}, nil
}

func (f planFlags) write(stdout io.Writer, it itinerary.Itinerary) error {
	var data []byte
	if f.asJSON {
		b, err := json.MarshalIndent(it, "", "  ")
		if err != nil {
			return err
		}
		data = append(b, '\n')
	} else {
		data = []byte(itinerary.Render(it))
	}

	if f.out == "" {
		_, err := stdout.Write(data)
		return err
	}
	path := f.out
	if path == "auto" {
		path = itinerary.Filename(it.City())
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(stdout, "itinerary saved to %s\n", path)
	return nil
}

func parseFlagDate(name, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must be YYYY-MM-DD", name)
	}
	return t, nil
}
