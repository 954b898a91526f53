package storage2md

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestConvertBatch(t *testing.T) {
	t.Parallel()

	inputs := []Input{
		{Name: "one", Content: "<p>one</p>"},
		{Name: "broken", Content: "<p>unclosed"},
		{Name: "two", Content: `<p>two <ac:image><ri:attachment ri:filename="x.png" /></ac:image></p>`},
		{Name: "three", Content: `<ac:structured-macro ac:name="mystery" />`},
	}

	results := NewConverter().ConvertBatch(context.Background(), inputs, 2)
	if len(results) != len(inputs) {
		t.Fatalf("got %d results, want %d", len(results), len(inputs))
	}

	for i, r := range results {
		if r.Name != inputs[i].Name {
			t.Errorf("results[%d].Name = %q, want %q (input order)", i, r.Name, inputs[i].Name)
		}
		if (r.Err == nil) == (r.Result == nil) {
			t.Errorf("results[%d] = %+v, want exactly one of Result and Err", i, r)
		}
	}
	if !errors.Is(results[1].Err, ErrStructural) {
		t.Errorf("results[1].Err = %v, want ErrStructural", results[1].Err)
	}
	if results[0].Result == nil || results[0].Result.Markdown != "one\n" {
		t.Errorf("results[0] = %+v, want converted", results[0])
	}

	summary := Summarize(results)
	want := BatchSummary{Succeeded: 3, Failed: 1, Warnings: 1, Assets: 1, Bytes: len("one\n") + len(results[2].Result.Markdown) + len(results[3].Result.Markdown)}
	if summary != want {
		t.Errorf("Summarize() = %+v, want %+v", summary, want)
	}
}

func TestConvertBatch_Empty(t *testing.T) {
	t.Parallel()

	if got := NewConverter().ConvertBatch(context.Background(), nil, 0); got != nil {
		t.Errorf("ConvertBatch(nil) = %v, want nil", got)
	}
}

func TestConvertBatch_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inputs := make([]Input, 5)
	for i := range inputs {
		inputs[i] = Input{Name: fmt.Sprintf("doc%d", i), Content: "<p>x</p>"}
	}

	for i, r := range NewConverter().ConvertBatch(ctx, inputs, 0) {
		if !errors.Is(r.Err, context.Canceled) || r.Result != nil {
			t.Errorf("results[%d] = %+v, want context.Canceled", i, r)
		}
	}
}

func TestConvertBatch_MoreWorkersThanInputs(t *testing.T) {
	t.Parallel()

	results := NewConverter().ConvertBatch(context.Background(), []Input{{Content: "<p>a</p>"}}, 50)
	if len(results) != 1 || results[0].Err != nil {
		t.Errorf("ConvertBatch() = %+v", results)
	}
}
