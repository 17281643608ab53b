package intent

import (
	"testing"

	"github.com/atiendebot/atiendebot/internal/textutil"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string // raw text, normalized before classification
		want  Intent
	}{
		{"Spanish price question", "¿Cuánto cuesta el programa?", Price},
		{"English price question", "how much is it", Price},
		{"Bare price keyword", "precio", Price},
		{"Includes question", "¿Qué incluye el curso?", Includes},
		{"English includes", "what is included", Includes},
		{"Duration question", "¿Cuánto dura?", Duration},
		{"English duration", "how long does it take", Duration},
		{"Generic info request", "quiero más información", GenericInfo},
		{"English info request", "send me more info", GenericInfo},
		{"Gratitude", "muchas gracias", Gratitude},
		{"English gratitude", "thank you so much", Gratitude},
		{"Spanish greeting", "hola", Greeting},
		{"Evening greeting", "buenas noches", Greeting},
		{"English greeting", "hello there", Greeting},
		{"Unmatched text", "xyzzy plugh", None},
		{"Empty message", "", None},
		{"Whitespace only", "   ", None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(textutil.Normalize(tt.input))
			if got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// Priority order is load-bearing: specific topics beat generic info,
// generic info beats gratitude, gratitude beats greeting.
func TestClassify_PriorityOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  Intent
	}{
		{"Price beats generic info", "hola, quiero más información sobre el precio", Price},
		{"Duration beats generic info", "más información de cuánto dura", Duration},
		{"Generic info beats greeting", "hola, quiero más información", GenericInfo},
		{"Gratitude beats greeting", "hola, muchas gracias", Gratitude},
		{"Includes beats gratitude", "gracias, ¿qué incluye?", Includes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(textutil.Normalize(tt.input))
			if got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClassify_Total(t *testing.T) {
	t.Parallel()

	valid := map[Intent]bool{
		Price: true, Includes: true, Duration: true,
		GenericInfo: true, Gratitude: true, Greeting: true, None: true,
	}

	inputs := []string{
		"", "hola", "asdfgh", "¿?", "precio gracias hola", "123456",
		"quiero saber todo", "\n\t", "ñandú", "HOW MUCH",
	}
	for _, in := range inputs {
		got := Classify(textutil.Normalize(in))
		if !valid[got] {
			t.Errorf("Classify(%q) = %v, not in the fixed intent set", in, got)
		}
	}
}

func TestIntentIsCanned(t *testing.T) {
	t.Parallel()

	canned := []Intent{Price, Includes, Duration, GenericInfo}
	for _, i := range canned {
		if !i.IsCanned() {
			t.Errorf("%v.IsCanned() = false, want true", i)
		}
	}
	notCanned := []Intent{Gratitude, Greeting, None}
	for _, i := range notCanned {
		if i.IsCanned() {
			t.Errorf("%v.IsCanned() = true, want false", i)
		}
	}
}

func TestIsEnglish(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"English greeting", "hello, I want details", true},
		{"English price", "how much is the program", true},
		{"Register marker", "can I register today", true},
		{"Book marker", "I'd like to book a class", true},
		{"Bare yes", "yes", true},
		{"Spanish default", "cuánto cuesta el programa", false},
		{"Spanish greeting", "hola buenas tardes", false},
		{"Empty defaults to Spanish", "", false},
		{"Informacion is not information", "quiero informacion", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEnglish(tt.input); got != tt.want {
				t.Errorf("IsEnglish(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestHasPurchaseIntent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"Spanish pay", "quiero pagar ya", true},
		{"Spanish register", "Quiero registrarme en el curso", true},
		{"Spanish how to start", "¿Cómo empiezo?", true},
		{"English start", "I want to start tomorrow", true},
		{"Sign me up", "sign me up please", true},
		{"Plain question", "¿cuánto cuesta?", false},
		{"Greeting", "hola", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPurchaseIntent(tt.input); got != tt.want {
				t.Errorf("HasPurchaseIntent(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestWantsFullCatalog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"Spanish everything", "quiero saber todo", true},
		{"Spanish all info", "envíame toda la información por favor", true},
		{"English everything", "send me everything", true},
		{"Regular info request", "quiero más información", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WantsFullCatalog(tt.input); got != tt.want {
				t.Errorf("WantsFullCatalog(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
