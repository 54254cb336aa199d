package devices

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownOutput reports that xsetwacom did not recognise an output name.
var ErrUnknownOutput = errors.New("xsetwacom does not know output")

const unknownOutputMessage = "Unable to find an output"

// Tablet is one xsetwacom device line.
type Tablet struct {
	Name string
	ID   string
	Type string
}

// Xsetwacom enumerates tablet devices and maps them to outputs.
type Xsetwacom struct {
	Binary string
	Runner Runner
	// Types restricts enumeration to these device types (upper case). Empty
	// keeps every device.
	Types []string
}

// Tablets returns device names reported by `xsetwacom --list devices`.
func (x *Xsetwacom) Tablets(ctx context.Context) ([]string, error) {
	devices, err := x.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(devices))
	for _, dev := range devices {
		if x.accepts(dev.Type) {
			names = append(names, dev.Name)
		}
	}
	return names, nil
}

// List returns every device with its id and type.
func (x *Xsetwacom) List(ctx context.Context) ([]Tablet, error) {
	out, err := x.Runner.Run(ctx, x.Binary, "--list", "devices")
	if err != nil {
		return nil, fmt.Errorf("list tablets: %w", err)
	}
	return ParseXsetwacomDevices(out.Stdout), nil
}

// Map binds device to the output named display.
func (x *Xsetwacom) Map(ctx context.Context, device, display string) error {
	out, err := x.Runner.Run(ctx, x.Binary, "--set", device, "MapToOutput", display)
	if strings.Contains(out.Combined(), unknownOutputMessage) {
		return fmt.Errorf("map %q to %q: %w", device, display, ErrUnknownOutput)
	}
	if err != nil {
		return fmt.Errorf("map %q to %q: %w", device, display, err)
	}
	return nil
}

// AcceptsOutputs tries every display with every device and reports false as
// soon as xsetwacom rejects an output name. Other mapping failures are
// ignored here; they surface again when the coordinator maps for real.
func (x *Xsetwacom) AcceptsOutputs(ctx context.Context, displays []string) (bool, error) {
	devices, err := x.Tablets(ctx)
	if err != nil {
		return false, err
	}
	for _, display := range displays {
		for _, dev := range devices {
			if err := x.Map(ctx, dev, display); errors.Is(err, ErrUnknownOutput) {
				return false, nil
			}
		}
	}
	return true, nil
}

func (x *Xsetwacom) accepts(deviceType string) bool {
	if len(x.Types) == 0 {
		return true
	}
	for _, t := range x.Types {
		if strings.EqualFold(t, deviceType) {
			return true
		}
	}
	return false
}

// ParseXsetwacomDevices parses lines such as
//
//	Wacom Intuos Pro M Pen stylus     id: 10  type: STYLUS
func ParseXsetwacomDevices(output string) []Tablet {
	var devices []Tablet
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		name, tail, ok := strings.Cut(line, "id:")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		dev := Tablet{Name: name}
		idPart, typePart, hasType := strings.Cut(tail, "type:")
		if fields := strings.Fields(idPart); len(fields) > 0 {
			dev.ID = fields[0]
		}
		if hasType {
			if fields := strings.Fields(typePart); len(fields) > 0 {
				dev.Type = strings.ToUpper(fields[0])
			}
		}
		devices = append(devices, dev)
	}
	return devices
}
