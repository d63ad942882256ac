// Package revisor embeds the revisor edit pipeline in a Go program.
//
// A Client opens HTML documents, runs natural-language instructions against
// them and mounts every rewrite as a review unit with an inline word diff.
// Units stay hidden until shown, and only shown units can be accepted.
//
//	client, _ := revisor.New(ctx,
//	    revisor.WithGemini(""),
//	    revisor.WithCredentials(os.Getenv("GEMINI_API_KEY")),
//	)
//	doc, _ := client.Open(ctx, "<h1>Pets</h1><p>The cat sat.</p>")
//	res, _ := doc.Edit(ctx, "make it a dog")
//	for _, u := range res.Units {
//	    _, _ = doc.Show(ctx, u.ID)
//	    _, _ = doc.Accept(ctx, u.ID)
//	}
//	markup, _ := doc.Markup(ctx)
//
// Replace mode asks the model for literal substitutions instead of locating regions:
//
//	res, _ := doc.Edit(ctx, "rename Acme to Globex", revisor.ReplaceMode())
package revisor
