// Package config loads and watches the yasched YAML configuration.
//
// The top-level document is strictly typed (unknown fields are rejected).
// Free-form timing values inside task parameters use the flexible Node
// reader, which accepts alternative spellings for each field and builds
// timing values from components, strings, or nested documents.
package config
