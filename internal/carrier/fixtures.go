package carrier

import "shipquote/internal/shipment"

// Fixture returns the reference shipment each carrier has historically been
// asked to quote when the caller supplies none. Unknown ids get an empty shipment.
func Fixture(id ID) shipment.Shipment {
	switch id {
	case Carrier1:
		return shipment.Shipment{
			Source:      testAddress,
			Destination: testAddress,
			Packages: []shipment.Dimension{
				{Height: 20, Width: 20, NoOfCartons: 5},
				{Height: 10, Width: 10, NoOfCartons: 10},
			},
		}
	case Carrier2:
		return shipment.Shipment{
			Source:      testAddress,
			Destination: testAddress,
			Packages: []shipment.Dimension{
				{Height: 30, Width: 30, NoOfCartons: 10},
				{Height: 10, Width: 10, NoOfCartons: 20},
			},
		}
	case Carrier3:
		return shipment.Shipment{
			Source:      testSource,
			Destination: testSource,
			Packages: []shipment.Dimension{
				{Height: 40, Width: 40, NoOfCartons: 5},
				{Height: 20, Width: 20, NoOfCartons: 10},
				{Height: 10, Width: 10, NoOfCartons: 15},
			},
		}
	}
	return shipment.Shipment{}
}

var (
	testAddress = shipment.Address{
		Address:       "Test Address",
		City:          "Test City",
		State:         "Test State",
		ZipCode:       "6a7f88",
		ContactNumber: "1111111",
	}
	testSource = shipment.Address{
		Address:       "Test Source",
		City:          "Test",
		State:         "Test",
		ZipCode:       "86988h",
		ContactNumber: "333333",
	}
)
