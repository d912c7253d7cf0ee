package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/poiesic/peerscope"
	"github.com/poiesic/peerscope/store"
)

// companies is a small development dataset covering several industries,
// business models, sizes and regions, so filtered discovery has something to
// chew on locally.
var companies = []*store.CompanyRecord{
	{Name: "Acme Widgets", Domain: "acmewidgets.example", Industry: "Manufacturing", BusinessModel: "B2B", EmployeeCount: 500, Location: "Portland", Description: "Industrial widget manufacturing for assembly lines"},
	{Name: "Beta Industrial", Domain: "betaindustrial.example", Industry: "Manufacturing", BusinessModel: "B2B", EmployeeCount: 320, Location: "Portland", Description: "Precision widget and fastener manufacturing"},
	{Name: "Gamma Fabrication", Domain: "gammafab.example", Industry: "Manufacturing", BusinessModel: "B2B", EmployeeCount: 85, Location: "Austin", Description: "Custom metal fabrication and machining services"},
	{Name: "Cloudloom", Domain: "cloudloom.example", Industry: "Software", BusinessModel: "B2B", EmployeeCount: 240, Location: "San Francisco", Description: "Cloud infrastructure monitoring and alerting platform"},
	{Name: "Stackmeter", Domain: "stackmeter.example", Industry: "Software", BusinessModel: "B2B", EmployeeCount: 180, Location: "Seattle", Description: "Application performance monitoring for cloud workloads"},
	{Name: "Observa", Domain: "observa.example", Industry: "Software", BusinessModel: "B2B", EmployeeCount: 95, Location: "Berlin", Description: "Observability and log analytics for distributed systems"},
	{Name: "Quanta Analytics", Domain: "quanta.example", Industry: "Software", BusinessModel: "B2B", EmployeeCount: 60, Location: "London", Description: "Business intelligence dashboards and data pipelines"},
	{Name: "Ledgerly", Domain: "ledgerly.example", Industry: "Fintech", BusinessModel: "B2B", EmployeeCount: 150, Location: "London", Description: "Accounting automation and invoicing for small businesses"},
	{Name: "Paywise", Domain: "paywise.example", Industry: "Fintech", BusinessModel: "B2B", EmployeeCount: 410, Location: "Amsterdam", Description: "Payment processing and fraud detection services"},
	{Name: "Coinharbor", Domain: "coinharbor.example", Industry: "Fintech", BusinessModel: "B2C", EmployeeCount: 75, Location: "Singapore", Description: "Consumer savings and investment application"},
	{Name: "Shopfleet", Domain: "shopfleet.example", Industry: "Ecommerce", BusinessModel: "Marketplace", EmployeeCount: 620, Location: "New York", Description: "Marketplace connecting independent retailers with buyers"},
	{Name: "Cartology", Domain: "cartology.example", Industry: "Ecommerce", BusinessModel: "B2C", EmployeeCount: 130, Location: "Tokyo", Description: "Online storefront builder for direct-to-consumer brands"},
	{Name: "Freshcrate", Domain: "freshcrate.example", Industry: "Retail", BusinessModel: "B2C", EmployeeCount: 890, Location: "Chicago", Description: "Grocery delivery with same-day fulfillment"},
	{Name: "Urban Pantry", Domain: "urbanpantry.example", Industry: "Retail", BusinessModel: "B2C", EmployeeCount: 210, Location: "Paris", Description: "Neighborhood grocery chain with online ordering"},
	{Name: "Medisync", Domain: "medisync.example", Industry: "Healthcare", BusinessModel: "B2B", EmployeeCount: 340, Location: "Boston", Description: "Patient record synchronization for clinics"},
	{Name: "Carepath", Domain: "carepath.example", Industry: "Healthcare", BusinessModel: "B2C", EmployeeCount: 55, Location: "Bangalore", Description: "Telemedicine appointments and prescription tracking"},
	{Name: "Gridwatt", Domain: "gridwatt.example", Industry: "Energy", BusinessModel: "B2B", EmployeeCount: 470, Location: "Berlin", Description: "Smart grid analytics for utility operators"},
	{Name: "Solarcade", Domain: "solarcade.example", Industry: "Energy", BusinessModel: "B2C", EmployeeCount: 120, Location: "Austin", Description: "Residential solar installation and financing"},
	{Name: "Freightline", Domain: "freightline.example", Industry: "Logistics", BusinessModel: "B2B", EmployeeCount: 780, Location: "Shanghai", Description: "Freight forwarding and customs brokerage platform"},
	{Name: "Lastmile Labs", Domain: "lastmile.example", Industry: "Logistics", BusinessModel: "B2B", EmployeeCount: 95, Location: "Amsterdam", Description: "Route optimization for local delivery fleets"},
}

var dbPath = flag.String("db", "./companies_db", "path to the BadgerDB database directory")

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

func main() {
	engine, err := peerscope.NewEngine(*dbPath)
	if err != nil {
		panic(err)
	}
	defer engine.Close()

	ctx := context.Background()

	// Seed in small batches so embedding requests stay bounded
	const batchSize = 5
	for start := 0; start < len(companies); start += batchSize {
		end := min(start+batchSize, len(companies))
		if _, err := engine.Seed(ctx, companies[start:end]...); err != nil {
			panic(err)
		}
		slog.Info("seeded batch", "from", start, "to", end)
	}
}
