// Package spacefit provides an embedded Go client for the spacefit
// tenant-to-property matching engine backed by Redis with the search module.
//
// The client wires the full pipeline in-process: index property listings,
// then match free-text tenant requirements against them.
//
//	client, _ := spacefit.New(ctx,
//	    spacefit.WithRedis("localhost:6379", ""),
//	    spacefit.WithOpenAI(os.Getenv("OPENAI_API_KEY")),
//	)
//	defer client.Close()
//
//	client.IndexProperty(ctx, spacefit.Property{
//	    ID: "p1", City: "Austin", State: "TX",
//	    RentPerSqft: 42.5, Description: "Corner storefront with patio",
//	})
//	matches, _ := client.Match(ctx, "cozy space for a coffee shop")
package spacefit
