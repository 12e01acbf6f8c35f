package ometa

// Value is whatever a rule or primitive combinator produces: a single
// token, a Sequence accumulated by Many/Many1/Sequence, a Tuple built by a
// host expression, or any value a host expression's builtin function
// returns. Rules return whatever their semantic actions yield, so this is
// the sum type spec.md §9 calls out as "Value = Token | Sequence<Value> |
// User<T>" — Go's interface{} already carries that union, so Value is an
// alias rather than a tagged struct.
type Value = interface{}

// Sequence is the Value produced by Many, Many1, and the Bind of either.
// A Sequence IR node does not produce one: RC yields only its last
// child's value (spec.md §4.5).
type Sequence []Value

// Tuple is produced by a host expression of the form "(a, b, ...)" with
// more than one element — see the `pair` example in spec.md §8, whose
// host expression "(a, b)" must produce a structured pair rather than a
// grouped single value.
type Tuple []Value
