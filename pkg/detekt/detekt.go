// Package detekt rewrites Detekt rule identifiers in static-analysis output
// into human-readable phrases.
//
// Phrases live in an x/text message catalog. Portuguese is the default and
// carries the wording students are used to; English is available for
// non-Portuguese deployments.
package detekt

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Rules lists the translated Detekt rule identifiers in replacement order.
var Rules = []string{
	"VariableNaming",
	"FunctionNaming",
	"FunctionParameterNaming",
	"VariableMinLength",
	"VarCouldBeVal",
	"MandatoryBracesIfStatements",
	"ComplexCondition",
	"StringLiteralDuplication",
	"NestedBlockDepth",
	"UnsafeCallOnNullableType",
	"MaxLineLength",
	"LongMethod",
	"ForbiddenKeywords",
}

const capitalizeRest = "Caso o nome tenha mais do que uma palavra, as palavras seguintes devem ser capitalizadas (iniciadas por uma maiúscula)"

var portuguese = map[string]string{
	"VariableNaming":              "Nome da variável deve começar por letra minúscula. " + capitalizeRest,
	"FunctionNaming":              "Nome da função deve começar por letra minúscula. " + capitalizeRest,
	"FunctionParameterNaming":     "Nome do parâmetro de função deve começar por letra minúscula. " + capitalizeRest,
	"VariableMinLength":           "Nome da variável demasiado pequeno",
	"VarCouldBeVal":               "Variável imutável declarada com var",
	"MandatoryBracesIfStatements": "Instrução 'if' sem chaveta",
	"ComplexCondition":            "Condição demasiado complexa",
	"StringLiteralDuplication":    "String duplicada. Deve ser usada uma constante",
	"NestedBlockDepth":            "Demasiados níveis de blocos dentro de blocos",
	"UnsafeCallOnNullableType":    "Não é permitido usar o !! pois pode causar crashes",
	"MaxLineLength":               "Linha demasiado comprida",
	"LongMethod":                  "Função com demasiadas linhas de código",
	"ForbiddenKeywords":           "Utilização de instruções proibidas",
}

const capitalizeRestEN = "If the name has more than one word, the following words must be capitalized"

var english = map[string]string{
	"VariableNaming":              "Variable name must start with a lowercase letter. " + capitalizeRestEN,
	"FunctionNaming":              "Function name must start with a lowercase letter. " + capitalizeRestEN,
	"FunctionParameterNaming":     "Function parameter name must start with a lowercase letter. " + capitalizeRestEN,
	"VariableMinLength":           "Variable name is too short",
	"VarCouldBeVal":               "Immutable variable declared with var",
	"MandatoryBracesIfStatements": "'if' statement without braces",
	"ComplexCondition":            "Condition is too complex",
	"StringLiteralDuplication":    "Duplicated string. A constant should be used",
	"NestedBlockDepth":            "Too many levels of nested blocks",
	"UnsafeCallOnNullableType":    "Using !! is not allowed because it may cause crashes",
	"MaxLineLength":               "Line is too long",
	"LongMethod":                  "Function has too many lines of code",
	"ForbiddenKeywords":           "Use of forbidden instructions",
}

var (
	supported = []language.Tag{language.Portuguese, language.English}
	matcher   = language.NewMatcher(supported)
	phrases   = buildCatalog()
)

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.Portuguese))
	for _, rule := range Rules {
		// Keys and messages are static; SetString only fails on malformed tags.
		_ = b.SetString(language.Portuguese, rule, portuguese[rule])
		_ = b.SetString(language.English, rule, english[rule])
	}
	return b
}

// Match picks the closest supported language for a BCP 47 string such as
// "pt-BR" or "en". Unknown or empty input yields Portuguese.
func Match(lang string) language.Tag {
	if lang == "" {
		return language.Portuguese
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return language.Portuguese
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.Portuguese
	}
	return supported[idx]
}

// Translator replaces "<Rule> -" with "<phrase> -" for every known rule.
// It is safe for concurrent use.
type Translator struct {
	pairs []string
}

// NewTranslator builds a translator for the given language.
func NewTranslator(tag language.Tag) *Translator {
	p := message.NewPrinter(tag, message.Catalog(phrases))
	pairs := make([]string, 0, len(Rules)*2)
	for _, rule := range Rules {
		pairs = append(pairs, rule+" -", p.Sprintf(rule)+" -")
	}
	return &Translator{pairs: pairs}
}

// Default returns the Portuguese translator.
func Default() *Translator {
	return NewTranslator(language.Portuguese)
}

// Translate rewrites every known rule identifier in line. Unknown identifiers
// and the rest of the line pass through untouched.
func (t *Translator) Translate(line string) string {
	for i := 0; i < len(t.pairs); i += 2 {
		line = strings.ReplaceAll(line, t.pairs[i], t.pairs[i+1])
	}
	return line
}

// Phrase returns the phrase for a rule, or the rule itself when unknown.
func (t *Translator) Phrase(rule string) string {
	for i := 0; i < len(t.pairs); i += 2 {
		if t.pairs[i] == rule+" -" {
			return strings.TrimSuffix(t.pairs[i+1], " -")
		}
	}
	return rule
}
