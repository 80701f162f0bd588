package analytics

import (
	"time"

	"superstore-dashboard/internal/dataset"
	"superstore-dashboard/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var testHeader = []string{"Order ID", "Order Date", "Region", "State", "City", "Category", "Sub-Category", "Segment", "Ship Mode", "Customer Name", "Sales", "Profit", "Quantity"}

func rec(id string, date time.Time, region, state, city, category, sub, customer string, sales, profit float64, qty int) models.Record {
	r := models.Record{
		OrderDate:    date,
		Region:       region,
		State:        state,
		City:         city,
		Category:     category,
		SubCategory:  sub,
		Segment:      "Consumer",
		ShipMode:     "Standard Class",
		CustomerName: customer,
		Sales:        sales,
		Profit:       profit,
		Quantity:     qty,
	}
	r.Raw = []string{id, date.Format(time.DateOnly), region, state, city, category, sub, r.Segment, r.ShipMode, customer, "", "", ""}
	return r
}

func testDataset() *dataset.Dataset {
	return dataset.New(testHeader, []models.Record{
		rec("1", day(2016, 1, 5), "West", "California", "Los Angeles", "Technology", "Phones", "Alice", 100, 20, 2),
		rec("2", day(2016, 1, 20), "West", "California", "San Francisco", "Furniture", "Chairs", "Bob", 50, -5, 1),
		rec("3", day(2016, 2, 3), "East", "New York", "New York City", "Technology", "Phones", "Carol", 30, 6, 3),
		rec("4", day(2016, 3, 15), "West", "Washington", "Seattle", "Office Supplies", "Paper", "Alice", 12.5, 4, 5),
		rec("5", day(2017, 1, 9), "Central", "Texas", "Houston", "Furniture", "Tables", "Dan", 400, -80, 2),
		rec("6", day(2017, 2, 14), "East", "District of Columbia", "Washington", "Office Supplies", "Binders", "Erin", 22, 7, 4),
		rec("7", day(2017, 2, 28), "Central", "Texas", "Dallas", "Technology", "Accessories", "Bob", 75, 15, 1),
	})
}
