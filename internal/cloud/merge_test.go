package cloud

import (
	"testing"

	"storegen/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func store(id, name string) models.Store {
	return models.Store{ID: id, Name: name}
}

func TestMergeCloudWinsOnCollision(t *testing.T) {
	local := []models.Store{store("s1", "Local Acme"), store("s2", "Offline Only")}
	remote := []models.Store{store("s1", "Cloud Acme")}

	merged := Merge(local, remote)

	require.Len(t, merged, 2)
	assert.Equal(t, "Cloud Acme", merged[0].Name)
	assert.Equal(t, "Offline Only", merged[1].Name)
}

func TestMergeAppendsCloudOnly(t *testing.T) {
	local := []models.Store{store("s1", "Acme")}
	remote := []models.Store{store("s1", "Acme"), store("s3", "Cloud New")}

	merged := Merge(local, remote)

	require.Len(t, merged, 2)
	assert.Equal(t, "s3", merged[1].ID)
}

func TestMergeEmptySides(t *testing.T) {
	assert.Empty(t, Merge(nil, nil))
	assert.Len(t, Merge([]models.Store{store("a", "A")}, nil), 1)
	assert.Len(t, Merge(nil, []models.Store{store("b", "B")}), 1)
}

func TestUpdateColumnsExcludesSubCollections(t *testing.T) {
	columns, err := updateColumns(map[string]interface{}{
		"name":        "New Name",
		"products":    []models.Product{{ID: "p"}},
		"collections": []models.Collection{{ID: "c"}},
		"settings":    map[string]string{"k": "v"},
		"theme":       models.Theme{PrimaryColor: "#fff"},
	})
	require.NoError(t, err)

	assert.Equal(t, "New Name", columns["name"])
	assert.Contains(t, columns["theme"], "#fff")
	assert.NotContains(t, columns, "products")
	assert.NotContains(t, columns, "collections")
	assert.NotContains(t, columns, "settings")
}

func TestProductRowRoundTripImageShape(t *testing.T) {
	p := models.Product{
		ID:    "p1",
		Name:  "Thing",
		Price: 12.5,
		Image: models.ImageRef{Src: models.ImageSrc{Large: "https://cdn/x.png"}},
	}
	row, err := productToRow("s1", p)
	require.NoError(t, err)

	back := row.toModel()
	assert.Equal(t, "https://cdn/x.png", back.Image.Src.Large)
	assert.Equal(t, "https://cdn/x.png", back.Image.Src.Medium)
	assert.Equal(t, 12.5, back.Price)
}
