// Package seed defines the JSON Lines catalog seed format shared by the
// server bootstrap loader and cmd/catalog-ingest. One line describes one
// stocked catalog item.
package seed

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/ranito1909/furniture-store/internal/domain/catalog"
)

// Record is one seed line. The kind-specific fields mirror the catalog
// attributes: Material serves chairs (cushion) and tables (frame), Capacity
// sofas, LightSource lamps, WallMounted shelves.
type Record struct {
	Kind        catalog.Kind
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int
	Dimensions  []float64
	Material    string
	Capacity    int
	LightSource string
	WallMounted bool
}

// Decode parses a single seed line.
func Decode(data []byte) (Record, error) {
	var r Record
	d := jx.DecodeBytes(data)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "kind":
			s, err := d.Str()
			r.Kind = catalog.Kind(s)
			return err
		case "name":
			s, err := d.Str()
			r.Name = s
			return err
		case "description":
			s, err := d.Str()
			r.Description = s
			return err
		case "price":
			s, err := d.Str()
			if err != nil {
				return err
			}
			r.Price, err = decimal.NewFromString(s)
			return err
		case "quantity":
			v, err := d.Int()
			r.Quantity = v
			return err
		case "dimensions":
			return d.Arr(func(d *jx.Decoder) error {
				v, err := d.Float64()
				if err != nil {
					return err
				}
				r.Dimensions = append(r.Dimensions, v)
				return nil
			})
		case "material":
			s, err := d.Str()
			r.Material = s
			return err
		case "capacity":
			v, err := d.Int()
			r.Capacity = v
			return err
		case "light_source":
			s, err := d.Str()
			r.LightSource = s
			return err
		case "wall_mounted":
			v, err := d.Bool()
			r.WallMounted = v
			return err
		default:
			return d.Skip()
		}
	}); err != nil {
		return Record{}, errors.Wrap(err, "decode seed record")
	}
	if err := r.validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

func (r Record) validate() error {
	if r.Name == "" {
		return errors.New("seed record without a name")
	}
	if r.Quantity <= 0 {
		return errors.Errorf("seed record %q: quantity must be greater than 0, got %d", r.Name, r.Quantity)
	}
	if r.Price.IsNegative() {
		return errors.Errorf("seed record %q: negative price %s", r.Name, r.Price)
	}
	switch r.Kind {
	case catalog.KindChair, catalog.KindTable, catalog.KindSofa, catalog.KindLamp, catalog.KindShelf:
		return nil
	default:
		return errors.Errorf("seed record %q: unknown kind %q", r.Name, r.Kind)
	}
}

// Append encodes the record onto e as one JSON object.
func (r Record) Append(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("kind")
	e.Str(string(r.Kind))
	e.FieldStart("name")
	e.Str(r.Name)
	e.FieldStart("description")
	e.Str(r.Description)
	e.FieldStart("price")
	e.Str(r.Price.String())
	e.FieldStart("quantity")
	e.Int(r.Quantity)
	if len(r.Dimensions) > 0 {
		e.FieldStart("dimensions")
		e.ArrStart()
		for _, v := range r.Dimensions {
			e.Float64(v)
		}
		e.ArrEnd()
	}
	switch r.Kind {
	case catalog.KindChair, catalog.KindTable:
		e.FieldStart("material")
		e.Str(r.Material)
	case catalog.KindSofa:
		e.FieldStart("capacity")
		e.Int(r.Capacity)
	case catalog.KindLamp:
		e.FieldStart("light_source")
		e.Str(r.LightSource)
	case catalog.KindShelf:
		e.FieldStart("wall_mounted")
		e.Bool(r.WallMounted)
	}
	e.ObjEnd()
}

// Item builds the catalog item the record describes.
func (r Record) Item() *catalog.Item {
	switch r.Kind {
	case catalog.KindChair:
		return catalog.NewChair(r.Name, r.Description, r.Price, r.Dimensions, r.Material)
	case catalog.KindTable:
		return catalog.NewTable(r.Name, r.Description, r.Price, r.Dimensions, r.Material)
	case catalog.KindSofa:
		return catalog.NewSofa(r.Name, r.Description, r.Price, r.Dimensions, r.Capacity)
	case catalog.KindLamp:
		return catalog.NewLamp(r.Name, r.Description, r.Price, r.Dimensions, r.LightSource)
	case catalog.KindShelf:
		return catalog.NewShelf(r.Name, r.Description, r.Price, r.Dimensions, r.WallMounted)
	default:
		// validate() rejects unknown kinds; decoded records cannot reach here.
		return nil
	}
}
