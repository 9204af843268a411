package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the equipment, company_settings,
// quotation_templates, quotations and quotation_lines collections exist.
func Setup(app *pocketbase.PocketBase) {
	equipment := ensureCollection(app, "equipment", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "capacity", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "category",
			Required:  false,
			Values:    []string{"mobile_crane", "crawler_crane", "tower_crane", "pick_and_carry", "aerial_platform", "other"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "micro_rate", Required: false})
		c.Fields.Add(&core.NumberField{Name: "small_rate", Required: false})
		c.Fields.Add(&core.NumberField{Name: "monthly_rate", Required: false})
		c.Fields.Add(&core.NumberField{Name: "yearly_rate", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  false,
			Values:    []string{"available", "in_use", "maintenance"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "company_settings", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "address", Required: false})
		c.Fields.Add(&core.TextField{Name: "phone", Required: false})
		c.Fields.Add(&core.TextField{Name: "email", Required: false})
		c.Fields.Add(&core.TextField{Name: "website", Required: false})
		c.Fields.Add(&core.TextField{Name: "gstin", Required: false})
		c.Fields.Add(&core.TextField{Name: "logo_url", Required: false})
		c.Fields.Add(&core.TextField{Name: "bank_details", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	templates := ensureCollection(app, "quotation_templates", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "content", Required: false})
		c.Fields.Add(&core.TextField{Name: "row_template", Required: false})
		c.Fields.Add(&core.JSONField{Name: "elements", Required: false})
		c.Fields.Add(&core.BoolField{Name: "is_default"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	resourceModes := []string{"client", "provider", "undecided"}

	quotations := ensureCollection(app, "quotations", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "quotation_number", Required: false})
		c.Fields.Add(&core.TextField{Name: "quotation_date", Required: false})
		c.Fields.Add(&core.TextField{Name: "valid_until", Required: false})
		c.Fields.Add(&core.TextField{Name: "customer_name", Required: true})
		c.Fields.Add(&core.TextField{Name: "customer_company", Required: false})
		c.Fields.Add(&core.TextField{Name: "contact_person", Required: false})
		c.Fields.Add(&core.TextField{Name: "customer_address", Required: false})
		c.Fields.Add(&core.TextField{Name: "customer_phone", Required: false})
		c.Fields.Add(&core.TextField{Name: "customer_email", Required: false})
		c.Fields.Add(&core.TextField{Name: "customer_gstin", Required: false})
		c.Fields.Add(&core.TextField{Name: "site_location", Required: false})
		c.Fields.Add(&core.TextField{Name: "job_type", Required: false})
		c.Fields.Add(&core.NumberField{Name: "number_of_days", Required: true})
		c.Fields.Add(&core.NumberField{Name: "working_hours", Required: false})
		c.Fields.Add(&core.NumberField{Name: "site_distance_km", Required: false})
		c.Fields.Add(&core.SelectField{Name: "food_mode", Values: resourceModes, MaxSelect: 1})
		c.Fields.Add(&core.SelectField{Name: "accommodation_mode", Values: resourceModes, MaxSelect: 1})
		c.Fields.Add(&core.SelectField{
			Name:      "risk_factor",
			Values:    []string{"low", "medium", "high", "very_high"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "extra_charge", Required: false})
		c.Fields.Add(&core.NumberField{Name: "rigger_charge", Required: false})
		c.Fields.Add(&core.NumberField{Name: "helper_charge", Required: false})
		c.Fields.Add(&core.NumberField{Name: "incidental_charge", Required: false})
		c.Fields.Add(&core.NumberField{Name: "discount", Required: false})
		c.Fields.Add(&core.TextField{Name: "terms", Required: false})
		c.Fields.Add(&core.TextField{Name: "notes", Required: false})
		c.Fields.Add(&core.RelationField{
			Name:         "template",
			Required:     false,
			CollectionId: templates.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Values:    []string{"draft", "sent", "accepted", "rejected"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "quotation_lines", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "quotation",
			Required:      true,
			CollectionId:  quotations.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "equipment",
			Required:     true,
			CollectionId: equipment.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "tier",
			Required:  false,
			Values:    []string{"micro", "small", "monthly", "yearly"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: true})
		c.Fields.Add(&core.BoolField{Name: "has_rate_override"})
		c.Fields.Add(&core.NumberField{Name: "rate_override", Required: false})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
