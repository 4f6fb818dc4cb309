package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format names a snapshot serialization.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// ErrUnknownFormat is returned for an unsupported Format.
var ErrUnknownFormat = errors.New("unknown state format")

// ParseFormat maps a file extension or name to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json", ".json":
		return FormatJSON, nil
	case "yaml", "yml", ".yaml", ".yml":
		return FormatYAML, nil
	case "msgpack", "mp", ".msgpack", ".mp":
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Marshal encodes a snapshot.
func Marshal(format Format, snap *domain.StateSnapshot) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(snap, "", "  ")
	case FormatYAML:
		return yaml.Marshal(snap)
	case FormatMsgpack:
		return msgpack.Marshal(toWire(snap))
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Unmarshal decodes a snapshot.
func Unmarshal(format Format, data []byte) (*domain.StateSnapshot, error) {
	var snap domain.StateSnapshot
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("decode json snapshot: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("decode yaml snapshot: %w", err)
		}
	case FormatMsgpack:
		var w wireSnapshot
		if err := msgpack.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("decode msgpack snapshot: %w", err)
		}
		return fromWire(&w)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if snap.Values == nil {
		snap.Values = make(map[string]domain.Value)
	}
	return &snap, nil
}

// wireSnapshot is the msgpack layout. Values keep their kind tag so an
// int does not come back as a float.
type wireSnapshot struct {
	ModuleID   string               `msgpack:"module_id"`
	ModuleName string               `msgpack:"module_name"`
	SavedAt    int64                `msgpack:"saved_at"`
	Values     map[string]wireValue `msgpack:"values"`
}

type wireValue struct {
	Kind  domain.ValueKind `msgpack:"k"`
	Value any              `msgpack:"v"`
}

func toWire(snap *domain.StateSnapshot) *wireSnapshot {
	w := &wireSnapshot{
		ModuleID:   snap.ModuleID,
		ModuleName: snap.ModuleName,
		Values:     make(map[string]wireValue, len(snap.Values)),
	}
	if !snap.SavedAt.IsZero() {
		w.SavedAt = snap.SavedAt.UnixNano()
	}
	for k, v := range snap.Values {
		w.Values[k] = wireValue{Kind: v.Kind(), Value: v.Interface()}
	}
	return w
}

func fromWire(w *wireSnapshot) (*domain.StateSnapshot, error) {
	snap := domain.NewStateSnapshot(w.ModuleID, w.ModuleName)
	if w.SavedAt != 0 {
		snap.SavedAt = time.Unix(0, w.SavedAt).UTC()
	}
	for k, wv := range w.Values {
		v, err := domain.ValueOf(wv.Value)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", k, err)
		}
		v, err = coerce(v, wv.Kind)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", k, err)
		}
		snap.Values[k] = v
	}
	return snap, nil
}

// coerce restores the declared kind after msgpack shrank numbers.
func coerce(v domain.Value, kind domain.ValueKind) (domain.Value, error) {
	if v.Kind() == kind {
		return v, nil
	}
	switch kind {
	case domain.KindInt:
		if i, ok := v.AsInt(); ok {
			return domain.IntValue(i), nil
		}
	case domain.KindFloat:
		if f, ok := v.AsFloat(); ok {
			return domain.FloatValue(f), nil
		}
	}
	return domain.Value{}, fmt.Errorf("%w: %s stored as %s", domain.ErrUnsupportedValue, v.Kind(), kind)
}
