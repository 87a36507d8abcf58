// Package nearbite is an embeddable Go client for nearby food discovery:
// it searches Google Places around a point, enriches the results with
// details, and groups them into food-type categories with a text model.
//
// It runs the same pipeline as the nearbite API server, in-process.
//
//	client, _ := nearbite.New(ctx,
//	    nearbite.WithPlacesAPIKey(os.Getenv("PLACES_API_KEY")),
//	    nearbite.WithGemini(os.Getenv("GEMINI_API_KEY"), "gemini-2.0-flash"),
//	)
//	places, _ := client.DiscoverDetailed(ctx, 25.0330, 121.5654, 500)
//	byFood := client.Categorize(ctx, places)
//	for label, ps := range byFood {
//	    fmt.Println(label, len(ps))
//	}
//
// Any record type can be categorized with the generic helper:
//
//	byFood := nearbite.CategorizeBy(ctx, client, shops, func(s Shop) (string, []string) {
//	    return s.Title, s.Tags
//	})
package nearbite
