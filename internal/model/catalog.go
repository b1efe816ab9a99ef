package model

// Shop is the storefront metadata rendered in the layout.
type Shop struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Image struct {
	ID      string `json:"id,omitempty"`
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

type Collection struct {
	ID          string                  `json:"id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description,omitempty"`
	Handle      string                  `json:"handle"`
	Image       *Image                  `json:"image,omitempty"`
	Products    Connection[ProductCard] `json:"products"`
}

// ProductCard is the slim product shape listed in a collection grid.
type ProductCard struct {
	ID          string                     `json:"id"`
	Title       string                     `json:"title"`
	PublishedAt string                     `json:"publishedAt,omitempty"`
	Handle      string                     `json:"handle"`
	Variants    Connection[ProductVariant] `json:"variants"`
}

// FirstVariant is the variant a grid card shows, or nil.
func (p ProductCard) FirstVariant() *ProductVariant {
	vs := p.Variants.Flatten()
	if len(vs) == 0 {
		return nil
	}
	return &vs[0]
}

type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ProductOption struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type ProductRef struct {
	Title  string `json:"title"`
	Handle string `json:"handle"`
}

type ProductVariant struct {
	ID               string           `json:"id"`
	Title            string           `json:"title,omitempty"`
	SKU              string           `json:"sku,omitempty"`
	AvailableForSale bool             `json:"availableForSale"`
	SelectedOptions  []SelectedOption `json:"selectedOptions,omitempty"`
	Image            *Image           `json:"image,omitempty"`
	Price            Money            `json:"price"`
	CompareAtPrice   *Money           `json:"compareAtPrice,omitempty"`
	UnitPrice        *Money           `json:"unitPrice,omitempty"`
	Product          *ProductRef      `json:"product,omitempty"`
}

type MediaSource struct {
	MimeType string `json:"mimeType"`
	URL      string `json:"url"`
}

// Media is one gallery entry; MediaContentType is IMAGE, MODEL_3D, VIDEO or EXTERNAL_VIDEO.
type Media struct {
	ID               string        `json:"id,omitempty"`
	MediaContentType string        `json:"mediaContentType"`
	Alt              string        `json:"alt,omitempty"`
	Image            *Image        `json:"image,omitempty"`
	Sources          []MediaSource `json:"sources,omitempty"`
}

type Product struct {
	ID              string                     `json:"id"`
	Title           string                     `json:"title"`
	Handle          string                     `json:"handle"`
	Vendor          string                     `json:"vendor"`
	DescriptionHTML string                     `json:"descriptionHtml"`
	Media           Connection[Media]          `json:"media"`
	Options         []ProductOption            `json:"options"`
	SelectedVariant *ProductVariant            `json:"selectedVariant"`
	Variants        Connection[ProductVariant] `json:"variants"`
}

// DefaultVariant is the variant matching the selected options, or the first
// variant so an orderable variant is always selected.
func (p *Product) DefaultVariant() *ProductVariant {
	if p.SelectedVariant != nil {
		return p.SelectedVariant
	}
	vs := p.Variants.Flatten()
	if len(vs) == 0 {
		return nil
	}
	return &vs[0]
}
