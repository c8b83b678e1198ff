package viewport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/Beginsangod/Painter/internal/engine/items"
	"github.com/Beginsangod/Painter/internal/engine/scene"
	"github.com/Beginsangod/Painter/pkg/math"
)

// ErrNotExportable is returned by Snapshot for an item without export support.
var ErrNotExportable = errors.New("item cannot be exported")

// Record is the snapshot of one item and its subtree.
type Record struct {
	ID         uuid.UUID      `json:"id"`
	Kind       string         `json:"kind"`
	Name       string         `json:"name,omitempty"`
	Transform  [16]float32    `json:"transform"`
	Visible    bool           `json:"visible"`
	Selectable bool           `json:"selectable"`
	Depth      int            `json:"depth"`
	Data       map[string]any `json:"data"`
	Children   []Record       `json:"children,omitempty"`
}

// Snapshot records every root item. When any item fails to export, the
// failures are returned together and no records are produced.
func (v *Viewport) Snapshot() ([]Record, error) {
	var errs []error
	records := make([]Record, 0, len(v.items))
	for _, it := range v.items {
		r, err := recordOf(it)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		records = append(records, r)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return records, nil
}

func recordOf(it *scene.Item) (Record, error) {
	exp, ok := it.Drawable().(scene.Exporter)
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNotExportable, it)
	}
	data, err := exp.ExportData()
	if err != nil {
		return Record{}, fmt.Errorf("exporting %s: %w", it, err)
	}

	r := Record{
		ID:         it.ID(),
		Kind:       exp.Kind(),
		Name:       it.Name(),
		Transform:  it.Transform(),
		Visible:    it.Visible(),
		Selectable: it.Selectable(),
		Depth:      it.Depth(),
		Data:       data,
	}
	for _, c := range it.Children() {
		cr, err := recordOf(c)
		if err != nil {
			return Record{}, err
		}
		r.Children = append(r.Children, cr)
	}
	return r, nil
}

// Restore builds items from records and adds them as root items. Nothing
// is added when any record fails to build.
func (v *Viewport) Restore(records []Record) ([]*scene.Item, error) {
	roots := make([]*scene.Item, 0, len(records))
	for _, r := range records {
		it, err := build(v.registry, r)
		if err != nil {
			for _, done := range roots {
				destroyTree(done)
			}
			return nil, err
		}
		roots = append(roots, it)
	}
	if err := v.AddItems(roots...); err != nil {
		return nil, err
	}
	return roots, nil
}

func build(reg *scene.Registry, r Record) (*scene.Item, error) {
	n, err := items.New(reg, r.Kind)
	if err != nil {
		return nil, err
	}
	it := n.SceneItem()
	if err := n.ImportData(r.Data); err != nil {
		it.Destroy()
		return nil, fmt.Errorf("importing %s %s: %w", r.Kind, r.ID, err)
	}

	if r.ID != uuid.Nil {
		it.SetID(r.ID)
	}
	it.SetName(r.Name)
	it.SetTransform(math.Mat4(r.Transform))
	it.SetVisible(r.Visible, false)
	it.SetSelectable(r.Selectable, false)
	it.SetDepth(r.Depth)

	for _, cr := range r.Children {
		c, err := build(reg, cr)
		if err == nil {
			err = it.AddChild(c)
		}
		if err != nil {
			destroyTree(it)
			return nil, err
		}
	}
	return it, nil
}

func destroyTree(root *scene.Item) {
	for _, it := range append(root.RecursiveChildItems(), root) {
		it.Destroy()
	}
}

// WriteSnapshot encodes records as indented JSON.
func WriteSnapshot(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// ReadSnapshot decodes records written by WriteSnapshot.
func ReadSnapshot(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return records, nil
}
