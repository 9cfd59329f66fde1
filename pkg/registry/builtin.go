package registry

import (
	"errors"
	"fmt"

	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Built-in effect names.
const (
	EffectAppendMessage = "append_message"
	EffectAppendMany    = "append_many"
)

// RegisterBuiltins installs the effects every walkthrough can use.
func RegisterBuiltins(r *Registry) {
	r.Register(EffectAppendMessage, appendMessage)
	r.Register(EffectAppendMany, appendMany)
}

type messageArgs struct {
	From string `mapstructure:"from"`
	Text string `mapstructure:"text"`
}

// appendMessage appends a simulated chat message "from: text".
func appendMessage(args map[string]any) (domain.EffectFunc, error) {
	var a messageArgs
	if err := decode(args, &a); err != nil {
		return nil, err
	}
	if a.Text == "" {
		return nil, errors.New("text is required")
	}

	value := a.Text
	if a.From != "" {
		value = a.From + ": " + a.Text
	}
	item := domain.Item{Value: value, Attrs: map[string]string{"from": a.From, "text": a.Text}}

	return func(ec domain.EffectContext) error {
		ec.Data.Append(item)
		return nil
	}, nil
}

type manyArgs struct {
	Values []string `mapstructure:"values"`
}

// appendMany appends several plain values as one effect.
func appendMany(args map[string]any) (domain.EffectFunc, error) {
	var a manyArgs
	if err := decode(args, &a); err != nil {
		return nil, err
	}
	if len(a.Values) == 0 {
		return nil, errors.New("values must not be empty")
	}

	return func(ec domain.EffectContext) error {
		for _, v := range a.Values {
			ec.Data.Append(domain.Item{Value: v})
		}
		return nil
	}, nil
}

func decode(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("invalid args: %w", err)
	}
	return nil
}
