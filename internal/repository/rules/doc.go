// Package rules holds the cook rules decided by the labeling pass and
// persists them as YAML for the cook step to consume.
package rules
