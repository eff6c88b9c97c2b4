package pipeline

import (
	"fmt"
	"sort"

	"github.com/born-ml/named/internal/nn"
	"github.com/born-ml/named/internal/serialization"
)

// CheckpointFileName is the tagger checkpoint written into a run directory.
const CheckpointFileName = "tagger.safetensors"

// Parameters returns the tagger's parameters keyed by dotted path, e.g.
// "attn.q.weight" or "head.weight".
func (t *Tagger) Parameters() map[string]*nn.Parameter {
	params := map[string]*nn.Parameter{}
	add := func(prefix string, m nn.Module) {
		for _, p := range m.Parameters() {
			params[prefix+"."+p.Name()] = p
		}
	}
	add("embed", t.Embed)
	add("position", t.Position)
	add("attn.q", t.Attn.WQ)
	add("attn.k", t.Attn.WK)
	add("attn.v", t.Attn.WV)
	add("attn.o", t.Attn.WO)
	add("head", t.Head)
	return params
}

// Save writes the tagger's parameters, with their axis names, to path.
func (t *Tagger) Save(path string, metadata map[string]string) error {
	params := t.Parameters()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]serialization.Entry, 0, len(keys))
	for _, k := range keys {
		p := params[k]
		entries = append(entries, serialization.Entry{Name: k, Tensor: p.Tensor(), Names: p.AxisNames()})
	}
	if err := serialization.Save(path, entries, metadata); err != nil {
		return fmt.Errorf("failed to save tagger: %w", err)
	}
	t.logger.Info("checkpoint saved", "path", path, "parameters", len(entries))
	return nil
}

// Load replaces the tagger's parameters with the ones saved at path.
// Every parameter must be present with a matching shape; otherwise the
// tagger is left unchanged.
func (t *Tagger) Load(path string) error {
	f, err := serialization.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load tagger: %w", err)
	}

	params := t.Parameters()
	entries := make(map[string]serialization.Entry, len(params))
	for k, p := range params {
		e, ok := f.Lookup(k)
		if !ok {
			return fmt.Errorf("failed to load tagger: %s missing from %s", k, path)
		}
		if err := p.CheckLoad(e.Tensor, e.Names); err != nil {
			return fmt.Errorf("failed to load tagger: %w", err)
		}
		entries[k] = e
	}
	for k, p := range params {
		if err := p.Load(entries[k].Tensor, entries[k].Names); err != nil {
			return fmt.Errorf("failed to load tagger: %w", err)
		}
	}
	return nil
}
