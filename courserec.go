// Package courserec provides a retrieval-augmented course recommendation
// assistant. It crawls a university course catalog, embeds course
// descriptions into a vector store, and answers free-text questions by
// retrieving the most relevant courses and asking a language model to
// compose a recommendation.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, postgres/, gemini/).
package courserec
