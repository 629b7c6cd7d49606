// Package segment splits raw chapter text into ordered, size-bounded chunks
// along sentence boundaries so each chunk can be sent to the model as one
// element of a JSON array and mapped back by position.
package segment
