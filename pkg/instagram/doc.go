// Package instagram is the client for the upstream profile data API.
//
// The API exposes one profile endpoint and four content endpoints (stories,
// posts, reels, highlights), plus a media proxy. Responses are loosely
// shaped: the same logical field may arrive under several names, nested or
// flat. NormalizeProfile and NormalizePosts map them onto the strict
// Profile and Post types using ordered alias tables.
//
// Example usage:
//
//	client := instagram.NewClient(&cfg.API, log)
//
//	username, err := instagram.ParseUsername(input)
//	if err != nil {
//	    // show err next to the input
//	}
//	profile, err := client.FetchProfile(ctx, username)
//	if err != nil {
//	    fmt.Println(errors.UserMessage(err, "Could not load profile"))
//	}
//	reels, err := client.FetchCategory(ctx, instagram.CategoryReels, username)
package instagram
