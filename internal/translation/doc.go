// Package translation implements the chapter translation pipeline: the
// source text is segmented, sent to the model with the book glossary as
// context, and the decoded reply is aligned chunk by chunk with the source.
// When a book is given the translated chapter is stored.
//
// Every source chunk yields exactly one sentence pair. Positions the model
// left out carry an error marker naming the paragraph, so a short reply is
// visible to the reader instead of shifting later paragraphs.
package translation
