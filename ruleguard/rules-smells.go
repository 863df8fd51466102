package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

func smells(m dsl.Matcher) {
	// 1) Two consecutive guards returning the same value can be merged with ||.
	//      if a { return err }
	//      if b { return err }
	//    => if a || b { return err }
	m.Match(`if $c1 { return $ret }; if $c2 { return $ret }`).
		Report(`two consecutive guards return the same value; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { return $ret }`)

	// 2) Nested loops: not always wrong, but worth a look.
	m.Match(`for $*_ { for $*_ { $*_ } }`).
		Report(`nested for-loop; consider extracting inner loop logic`)
}

// outbound calls to the model runtime must carry the request context so a
// client disconnect cancels them.
func contextless(m dsl.Matcher) {
	m.Match(`http.Get($*_)`, `http.Post($*_)`, `http.NewRequest($*_)`).
		Where(!m.File().Name.Matches(`_test\.go$`)).
		Report(`outbound HTTP without context; use http.NewRequestWithContext`)

	m.Match(`context.Background()`).
		Where(m.File().PkgPath.Matches(`internal/(api|domain|infra)`) && !m.File().Name.Matches(`_test\.go$`)).
		Report(`context.Background() inside request-scoped code; pass the caller's ctx`)
}

// logging goes through slog.
func printing(m dsl.Matcher) {
	m.Match(`fmt.Println($*_)`, `fmt.Printf($*_)`, `log.Printf($*_)`, `log.Println($*_)`).
		Where(m.File().PkgPath.Matches(`internal/`)).
		Report(`use the injected *slog.Logger instead of printing`)
}
