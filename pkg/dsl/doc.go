/*
Package dsl provides a Go DSL for programmatically constructing walkthrough modules.

It lets developers define a timeline in code with a fluent builder instead of
a YAML or JSON file. This is handy for tests and for effects that close over
Go values, which a definition file cannot express.

Example usage:

	m, err := dsl.New("polling").
		Title("Short polling").
		Interval(1500 * time.Millisecond).
		Palette("none", "client", "server", "both").
		Step("Client asks").Highlight("client").
		Step("Server answers").Highlight("server").Append("X").
		Step("Client shows").Highlight("both").
		Build()
	if err != nil {
		log.Fatal(err)
	}
	player, _ := walkthrough.New(m)
	player.Play()
*/
package dsl
