package devices

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// Xrandr enumerates connected display outputs.
type Xrandr struct {
	Binary string
	Runner Runner
}

// Displays returns connected output names in xrandr order.
func (x *Xrandr) Displays(ctx context.Context) ([]string, error) {
	out, err := x.Runner.Run(ctx, x.Binary)
	if err != nil {
		return nil, fmt.Errorf("list displays: %w", err)
	}
	return ParseXrandrOutputs(out.Stdout), nil
}

// ParseXrandrOutputs returns the names of outputs whose state is "connected".
func ParseXrandrOutputs(output string) []string {
	var names []string
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || fields[1] != "connected" {
			continue
		}
		names = append(names, fields[0])
	}
	return names
}

// HeadNames returns HEAD-0 .. HEAD-(n-1), the output names the NVIDIA binary
// driver exposes to xsetwacom instead of the RandR names.
func HeadNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("HEAD-%d", i)
	}
	return names
}
