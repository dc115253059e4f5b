package style

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

type Descriptor struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

var catalogue = []Descriptor{
	{ID: "realistic", DisplayName: "Realistic"},
	{ID: "anime", DisplayName: "Anime"},
	{ID: "sketch", DisplayName: "Sketch"},
	{ID: "oil-painting", DisplayName: "Oil Painting"},
	{ID: "watercolor", DisplayName: "Watercolor"},
	{ID: "3d-render", DisplayName: "3D Render"},
	{ID: "digital-art", DisplayName: "Digital Art"},
	{ID: "pixel-art", DisplayName: "Pixel Art"},
}

var known = lo.Associate(catalogue, func(d Descriptor) (string, struct{}) {
	return d.ID, struct{}{}
})

var ErrEmptySelection = errors.New("no styles selected")

// List returns the catalogue in display order. Callers own the returned slice.
func List() []Descriptor {
	return append([]Descriptor(nil), catalogue...)
}

func Contains(id string) bool {
	_, ok := known[id]
	return ok
}

// Validate reports an empty selection or the ids that are not in the catalogue.
func Validate(ids []string) error {
	if len(ids) == 0 {
		return ErrEmptySelection
	}
	unknown := lo.Uniq(lo.Reject(ids, func(id string, _ int) bool {
		return Contains(id)
	}))
	if len(unknown) > 0 {
		return fmt.Errorf("unknown styles: %s", strings.Join(unknown, ", "))
	}
	return nil
}
