package generator

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
)

// StaticContent is the built-in ContentGenerator used when no model
// backend is configured: templated copy per store type, synthesized
// solid-color imagery. Deterministic apart from the color hash.
type StaticContent struct{}

func NewStaticContent() *StaticContent { return &StaticContent{} }

var staticCatalog = map[string][]struct {
	title string
	price float64
}{
	"fashion": {
		{"Linen Overshirt", 89}, {"Relaxed Chinos", 64}, {"Merino Crewneck", 110},
		{"Canvas Tote", 38}, {"Selvedge Denim", 148}, {"Wool Scarf", 45},
		{"Leather Belt", 52}, {"Oxford Shirt", 72},
	},
	"electronics": {
		{"Wireless Earbuds", 129}, {"Mechanical Keyboard", 159}, {"Smart Speaker", 99},
		{"USB-C Hub", 49}, {"Portable Charger", 39}, {"Desk Lamp", 59},
		{"Webcam", 79}, {"Fitness Tracker", 89},
	},
	"food": {
		{"Single-Origin Coffee", 18}, {"Cold-Pressed Olive Oil", 24}, {"Wildflower Honey", 14},
		{"Sourdough Starter Kit", 29}, {"Herbal Tea Sampler", 22}, {"Sea Salt Flakes", 9},
		{"Dark Chocolate Bar", 7}, {"Spice Collection", 34},
	},
	"jewelry": {
		{"Sterling Pendant", 120}, {"Gold-Plated Hoops", 85}, {"Signet Ring", 140},
		{"Tennis Bracelet", 220}, {"Pearl Studs", 95}, {"Chain Necklace", 110},
		{"Enamel Brooch", 65}, {"Cufflink Set", 75},
	},
	"general": {
		{"Ceramic Mug", 18}, {"Notebook Set", 24}, {"Scented Candle", 28},
		{"Throw Blanket", 59}, {"Water Bottle", 32}, {"Desk Organizer", 42},
		{"Wall Print", 36}, {"Plant Pot", 26},
	},
}

// ExtractStoreName recognizes "called X" and "named X" phrasings.
func (s *StaticContent) ExtractStoreName(ctx context.Context, prompt string) (string, error) {
	words := strings.Fields(prompt)
	for i, word := range words {
		lower := strings.ToLower(strings.Trim(word, ",."))
		if (lower == "called" || lower == "named") && i+1 < len(words) {
			var parts []string
			for _, w := range words[i+1:] {
				trimmed := strings.Trim(w, `",.'`)
				if trimmed == "" || !isCapitalized(trimmed) {
					break
				}
				parts = append(parts, trimmed)
			}
			if len(parts) > 0 {
				return strings.Join(parts, " "), nil
			}
		}
	}
	return "", nil
}

func (s *StaticContent) SuggestStoreName(ctx context.Context, prompt string) (string, error) {
	return "", nil
}

func (s *StaticContent) GenerateLogo(ctx context.Context, brandName string) ([]byte, error) {
	return renderSwatch(brandName, 256)
}

func (s *StaticContent) GenerateProduct(ctx context.Context, storeType, brandName string, excludeTitles []string) (ProductContent, error) {
	catalog, ok := staticCatalog[storeType]
	if !ok {
		catalog = staticCatalog["general"]
	}

	for _, entry := range catalog {
		if excluded(entry.title, excludeTitles) {
			continue
		}
		image, err := renderSwatch(entry.title, 512)
		if err != nil {
			return ProductContent{}, err
		}
		return ProductContent{
			Title:       entry.title,
			Description: fmt.Sprintf("The %s from %s. Made to last, priced to move.", entry.title, brandName),
			Price:       entry.price,
			ImageData:   image,
		}, nil
	}
	return ProductContent{}, fmt.Errorf("static catalog for %q exhausted", storeType)
}

func (s *StaticContent) GenerateCollection(ctx context.Context, storeType, brandName string, productNames, excludeNames []string) (CollectionContent, error) {
	names := []string{"Bestsellers", "New Arrivals", "Staff Picks"}
	var name string
	for _, candidate := range names {
		if !excluded(candidate, excludeNames) {
			name = candidate
			break
		}
	}
	if name == "" {
		return CollectionContent{}, fmt.Errorf("static collection names exhausted")
	}

	// Rotate which products each collection features.
	offset := len(excludeNames)
	size := (len(productNames) + 1) / 2
	refs := make([]string, 0, size)
	for i := 0; i < size && len(productNames) > 0; i++ {
		refs = append(refs, productNames[(offset+i)%len(productNames)])
	}

	image, err := renderSwatch(name, 512)
	if err != nil {
		return CollectionContent{}, err
	}
	return CollectionContent{
		Name:         name,
		Description:  fmt.Sprintf("%s from %s.", name, brandName),
		ImageData:    image,
		ProductNames: refs,
	}, nil
}

func excluded(title string, excludes []string) bool {
	for _, e := range excludes {
		if strings.EqualFold(e, title) {
			return true
		}
	}
	return false
}

func isCapitalized(word string) bool {
	return word[0] >= 'A' && word[0] <= 'Z'
}

// renderSwatch produces a solid-color PNG whose color derives from the
// seed text.
func renderSwatch(seed string, size int) ([]byte, error) {
	h := fnv.New32a()
	h.Write([]byte(seed))
	sum := h.Sum32()
	fill := color.NRGBA{
		R: uint8(sum >> 16),
		G: uint8(sum >> 8),
		B: uint8(sum),
		A: 255,
	}

	img := imaging.New(size, size, fill)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode swatch: %w", err)
	}
	return buf.Bytes(), nil
}
