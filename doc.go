// Package enterprisesearch ingests support knowledge into a search index for
// hybrid keyword and vector retrieval.
//
// A Service wires the pieces together: a chunk source (the Unstructured.io
// API or saved element files), an embedding provider with a persistent
// cache, an index (OpenSearch or a local Bleve index) and a run ledger.
//
// Example:
//
//	settings, err := config.Load("", config.OSEnv())
//	if err != nil {
//	    return err
//	}
//	svc, err := enterprisesearch.NewService(settings)
//	if err != nil {
//	    return err
//	}
//	defer svc.Close()
//
//	if err := svc.Verify(ctx); err != nil {
//	    return err
//	}
//	summary, err := svc.IngestFile(ctx, "LEXORA_SUPPORT_KNOWLEDGE_BASE.md")
package enterprisesearch
