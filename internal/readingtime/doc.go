// Package readingtime estimates how long a markdown document takes to read and
// records the estimate on the document's metadata.
//
// Text is taken from the goldmark tree (see mdast.PlainText), normalised to
// NFC and split with Unicode word boundaries (UAX #29). A segment counts as a
// word when it holds at least one letter or digit, so punctuation runs are
// ignored, "don't" and "3.14" count once, "well-known" counts twice, and
// scripts written without spaces (Han, Hiragana) count one word per
// character. Minutes are words divided by the configured words per minute,
// rounded up, with zero only when there are no words at all. Text made only of
// punctuation or symbols ("--- ***") has no words and so reads in 0 minutes;
// the one minute floor applies to documents with at least one word.
package readingtime
