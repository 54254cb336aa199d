package devices

import (
	"context"
	"log/slog"

	"tabletcycle/internal/logging"
)

// ProbedDisplays enumerates outputs with xrandr and, when xsetwacom rejects
// those names, substitutes HEAD-n names.
type ProbedDisplays struct {
	Xrandr    *Xrandr
	Xsetwacom *Xsetwacom
	Logger    *slog.Logger
}

// Displays returns output names usable with xsetwacom MapToOutput.
func (p *ProbedDisplays) Displays(ctx context.Context) ([]string, error) {
	names, err := p.Xrandr.Displays(ctx)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 || p.Xsetwacom == nil {
		return names, nil
	}

	ok, err := p.Xsetwacom.AcceptsOutputs(ctx, names)
	if err != nil {
		return nil, err
	}
	if ok {
		return names, nil
	}

	heads := HeadNames(len(names))
	logging.NewComponentLogger(p.Logger, "devices").Info("xsetwacom rejected xrandr output names, using HEAD-n names",
		logging.String(logging.FieldEventType, "output_names_substituted"),
		logging.Strings("xrandr_outputs", names),
		logging.Strings("outputs", heads),
	)
	return heads, nil
}
