// Package classifier decides per asset whether it ships in the build being cooked.
//
// Gate answers ShouldInclude for a single version range. Classifier runs the
// labeling pass over the asset registry: versioned assets get an AlwaysCook
// or NeverCook rule, unversioned asset types keep theirs, and assets missing
// their version range fail the pass.
package classifier
