// Package mutation implements every change that can be made to a link tree
// as a pure function from one model.Tree to the next.
//
// Functions never modify their input. Only the path from the root to the
// changed node is copied; sibling categories, subcategories and link
// sequences keep sharing storage with the input. When a call is rejected
// (blank title, empty URL, unknown id, equal or out-of-range indices) the
// input tree itself is returned, so model.SameTree(in, out) detects a no-op.
package mutation
