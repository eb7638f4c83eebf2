// Package feature extracts lexical features from URLs for phishing
// classification.
//
// The extractor is a pure function over the raw URL string: it never touches
// the network and never fails. Malformed input degrades to an all-zero
// vector so that one bad row cannot abort a batch training run.
//
// The feature order is part of the trained model's input contract. Any
// change to the order or the number of features invalidates every
// previously trained model, so both are fixed as constants here.
package feature
