package parser

var KEYWORDS = map[string]TokenType{
	"fn":       FUN,
	"let":      LET,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"break":    BREAK,
	"continue": CONTINUE,
	"return":   RETURN,
	"module":   MODULE,
	"contract": CONTRACT,
	"require":  REQUIRE,
	"use":      USE,
	"struct":   STRUCT,
	"writes":   WRITES,
	"reads":    READS,
	"ext":      EXT,
	"is":       IS,
	"modifier": MODIFIER,
	"mut":      MUT,
}
