package shipment

// Address is a pickup or delivery contact point.
type Address struct {
	Address       string `json:"address" xml:"Address" binding:"required,min=5,max=100"`
	City          string `json:"city" xml:"City" binding:"required"`
	State         string `json:"state" xml:"State" binding:"required"`
	ZipCode       string `json:"zipCode" xml:"ZipCode" binding:"required"`
	ContactNumber string `json:"contactNumber" xml:"ContactNumber" binding:"required"`
}

// Dimension describes a group of identical cartons.
type Dimension struct {
	Height      float64 `json:"height" xml:"Height" binding:"gte=0"`
	Width       float64 `json:"width" xml:"Width" binding:"gte=0"`
	NoOfCartons int     `json:"noOfCartons" xml:"NoOfCartons" binding:"gte=0"`
}

// Shipment is what every carrier is asked to quote.
type Shipment struct {
	Source      Address     `json:"source"`
	Destination Address     `json:"destination"`
	Packages    []Dimension `json:"packages" binding:"required,dive"`
}

// Clone returns a deep copy so concurrent carrier calls never share a package slice.
func (s Shipment) Clone() Shipment {
	out := s
	if s.Packages != nil {
		out.Packages = make([]Dimension, len(s.Packages))
		copy(out.Packages, s.Packages)
	}
	return out
}
