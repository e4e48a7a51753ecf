package attom

import (
	"encoding/json"
	"strconv"

	"github.com/couchcryptid/home-valuation/internal/domain"
)

// stringNumber accepts string or number JSON and stores as string.
type stringNumber string

func (s *stringNumber) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = stringNumber(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*s = stringNumber(num.String())
	return nil
}

// float returns the numeric value, or 0 when empty or unparsable.
func (s stringNumber) float() float64 {
	f, err := strconv.ParseFloat(string(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// snapshotPayload covers both the flat sale list and the nested property
// list shapes returned by different plan tiers.
type snapshotPayload struct {
	Sale     []flatSale   `json:"sale"`
	Sales    []flatSale   `json:"sales"`
	Property []propertyV1 `json:"property"`
}

type flatSale struct {
	SaleAmt          stringNumber `json:"saleamt"`
	BuildingAreaSqft stringNumber `json:"buildingareasqft"`
	SaleRecDate      string       `json:"salerecdate"`
	Distance         stringNumber `json:"distance"`
}

type propertyV1 struct {
	Location struct {
		Distance stringNumber `json:"distance"`
	} `json:"location"`
	Building struct {
		Size struct {
			UniversalSize stringNumber `json:"universalsize"`
			LivingSize    stringNumber `json:"livingsize"`
		} `json:"size"`
	} `json:"building"`
	Sale struct {
		SaleRecDate string `json:"salerecdate"`
		Amount      struct {
			SaleAmt     stringNumber `json:"saleamt"`
			SaleRecDate string       `json:"salerecdate"`
		} `json:"amount"`
	} `json:"sale"`
}

func (p propertyV1) flat() flatSale {
	size := p.Building.Size.LivingSize
	if size.float() <= 0 {
		size = p.Building.Size.UniversalSize
	}
	return flatSale{
		SaleAmt:          p.Sale.Amount.SaleAmt,
		BuildingAreaSqft: size,
		SaleRecDate:      firstNonEmpty(p.Sale.Amount.SaleRecDate, p.Sale.SaleRecDate),
		Distance:         p.Location.Distance,
	}
}

// mapSales takes the first limit sales and drops those missing a price or area.
func mapSales(p snapshotPayload, limit int) []domain.Comp {
	sales := p.Sale
	if len(sales) == 0 {
		sales = p.Sales
	}
	if len(sales) == 0 {
		for _, prop := range p.Property {
			sales = append(sales, prop.flat())
		}
	}
	if limit > 0 && len(sales) > limit {
		sales = sales[:limit]
	}

	out := make([]domain.Comp, 0, len(sales))
	for _, s := range sales {
		c := domain.Comp{
			Price:         s.SaleAmt.float(),
			Sqft:          s.BuildingAreaSqft.float(),
			ClosingDate:   s.SaleRecDate,
			DistanceMiles: s.Distance.float(),
		}
		if c.Price <= 0 || c.Sqft <= 0 {
			continue
		}
		out = append(out, c)
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
