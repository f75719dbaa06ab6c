package slideshow

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aouyang1/photoslideshow/store"
)

type fakeGetter map[int]store.Photo

func (f fakeGetter) GetPhoto(_ context.Context, id int) (*store.Photo, error) {
	p, ok := f[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", store.ErrPhotoNotFound, id)
	}
	return &p, nil
}

func TestLoadDetail(t *testing.T) {
	getter := fakeGetter{
		1: {ID: 1, ImageURL: "http://localhost:3000/assets/photo1.jpg?v=2", Caption: "beach"},
		2: {ID: 2, ImageURL: "data:image/png;base64,AAAA", Caption: "dropped.png"},
	}

	tests := []struct {
		name         string
		id           int
		wantNotFound bool
		wantFileName string
	}{
		{name: "server photo", id: 1, wantFileName: "photo1.jpg"},
		{name: "data uri", id: 2},
		{name: "missing", id: 999, wantNotFound: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := LoadDetail(context.Background(), getter, tt.id)
			assert.Equal(t, tt.wantNotFound, d.NotFound)
			if tt.wantNotFound {
				assert.Nil(t, d.Photo)
				return
			}
			require.NotNil(t, d.Photo)
			assert.Equal(t, tt.id, d.Photo.ID)
			assert.Equal(t, tt.wantFileName, d.FileName)
		})
	}
}

func TestClosesDetail(t *testing.T) {
	assert.True(t, ClosesDetail("Escape"))
	assert.False(t, ClosesDetail("Enter"))
	assert.False(t, ClosesDetail("ArrowLeft"))
}
