package parser

import "testing"

func TestTokenStreamSkipsTrivia(t *testing.T) {
	stream := Tokenize([]byte("rule // comment\n \"R\""), "test.drl")

	if got := stream.LA(1); got != TokenRule {
		t.Fatalf("LA(1): got %v, want rule", got)
	}
	if got := stream.LA(2); got != TokenString {
		t.Fatalf("LA(2): got %v, want String", got)
	}

	tok := stream.Consume()
	if tok.Kind != TokenRule {
		t.Fatalf("Consume: got %v, want rule", tok.Kind)
	}
	tok = stream.Consume()
	if tok.Kind != TokenString || tok.Literal != `"R"` {
		t.Fatalf("Consume: got %v %q", tok.Kind, tok.Literal)
	}
	if got := stream.LA(1); got != TokenEOF {
		t.Fatalf("LA(1) at end: got %v, want EOF", got)
	}
}

func TestTokenStreamHiddenVisible(t *testing.T) {
	stream := Tokenize([]byte("a b"), "test.drl")

	prev := stream.SetHiddenVisible(true)
	if prev {
		t.Fatal("trivia should start hidden")
	}
	kinds := []TokenKind{TokenIdent, TokenWhitespace, TokenIdent}
	for i, want := range kinds {
		if got := stream.LA(i + 1); got != want {
			t.Errorf("LA(%d): got %v, want %v", i+1, got, want)
		}
	}

	stream.SetHiddenVisible(false)
	if got := stream.LA(2); got != TokenIdent {
		t.Errorf("LA(2) hidden again: got %v, want Identifier", got)
	}
}

func TestTokenStreamMarkRewind(t *testing.T) {
	stream := Tokenize([]byte("a b c"), "test.drl")

	mark := stream.Mark()
	stream.Consume()
	stream.Consume()
	if got := stream.LT(1).Literal; got != "c" {
		t.Fatalf("after two consumes: got %q, want c", got)
	}

	stream.Rewind(mark)
	if got := stream.LT(1).Literal; got != "a" {
		t.Fatalf("after rewind: got %q, want a", got)
	}
}

func TestTokenStreamConsumeAtEOF(t *testing.T) {
	stream := Tokenize([]byte("a"), "test.drl")
	stream.Consume()

	for i := 0; i < 3; i++ {
		if tok := stream.Consume(); tok.Kind != TokenEOF {
			t.Fatalf("Consume at EOF: got %v, want EOF", tok.Kind)
		}
	}
	if got := stream.Last().Literal; got != "a" {
		t.Fatalf("Last after EOF consumes: got %q, want a", got)
	}
}

func TestNewTokenStreamAppendsEOF(t *testing.T) {
	stream := NewTokenStream(nil)
	if got := stream.LA(1); got != TokenEOF {
		t.Fatalf("empty stream LA(1): got %v, want EOF", got)
	}
}

func TestTokenStreamRewindRestoresLast(t *testing.T) {
	stream := Tokenize([]byte("a b c"), "test.drl")

	stream.Consume() // a
	mark := stream.Mark()
	stream.Consume() // b
	stream.Consume() // c
	if got := stream.Last().Literal; got != "c" {
		t.Fatalf("before rewind: got %q, want c", got)
	}

	stream.Rewind(mark)
	if got := stream.Last().Literal; got != "a" {
		t.Errorf("Last after rewind: got %q, want a", got)
	}

	stream.Rewind(0)
	if got := stream.Last().Literal; got != "" {
		t.Errorf("Last after rewind to start: got %q, want none", got)
	}
}
