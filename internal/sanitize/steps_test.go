package sanitize

import "testing"

func TestFirstParagraph(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Single paragraph", "Ofrecemos clases de yoga.", "Ofrecemos clases de yoga."},
		{"Two paragraphs", "Primer párrafo.\n\nSegundo párrafo.", "Primer párrafo."},
		{"Windows line endings", "Primera parte.\r\n\r\nSegunda parte.", "Primera parte."},
		{"Single newlines kept", "Línea uno.\nLínea dos.", "Línea uno.\nLínea dos."},
		{"Surrounding whitespace trimmed", "  texto  ", "texto"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FirstParagraph(tt.input, Input{}); got != tt.want {
				t.Errorf("FirstParagraph(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripContactLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		in    Input
		want  string
	}{
		{
			name:  "strips contact sentence without purchase intent",
			input: "Ofrecemos clases de yoga. Para más información, contáctanos en info@luna.mx.",
			in:    Input{UserMessage: "¿qué clases tienen?"},
			want:  "Ofrecemos clases de yoga.",
		},
		{
			name:  "keeps contact sentence with purchase intent",
			input: "Ofrecemos clases de yoga. Para más información, contáctanos en info@luna.mx.",
			in:    Input{UserMessage: "quiero registrarme", PurchaseIntent: true},
			want:  "Ofrecemos clases de yoga. Para más información, contáctanos en info@luna.mx.",
		},
		{
			name:  "marker match survives casing and accents",
			input: "Tenemos planes mensuales. PARA MAS INFORMACION escribe al 555-0100.",
			in:    Input{},
			want:  "Tenemos planes mensuales.",
		},
		{
			name:  "english marker",
			input: "We offer yoga classes. For more information, email info@luna.mx.",
			in:    Input{English: true},
			want:  "We offer yoga classes.",
		},
		{
			name:  "no marker leaves text untouched",
			input: "Ofrecemos clases de yoga y pilates.",
			in:    Input{},
			want:  "Ofrecemos clases de yoga y pilates.",
		},
		{
			name:  "stray trailing punctuation trimmed after removal",
			input: "Para más información escribe al estudio. Nuestro horario:",
			in:    Input{},
			want:  "Nuestro horario",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripContactLine(tt.input, tt.in); got != tt.want {
				t.Errorf("StripContactLine(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripLeadingGreeting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		in    Input
		want  string
	}{
		{
			name:  "strips hola on follow-up message",
			input: "Hola, las clases cuestan $200.",
			in:    Input{},
			want:  ", las clases cuestan $200.",
		},
		{
			name:  "keeps greeting on first message",
			input: "Hola, las clases cuestan $200.",
			in:    Input{FirstMessage: true},
			want:  "Hola, las clases cuestan $200.",
		},
		{
			name:  "strips buenas noches with exclamation wrapper",
			input: "¡Buenas noches! El horario es de 9 a 18.",
			in:    Input{},
			want:  "! El horario es de 9 a 18.",
		},
		{
			name:  "longest greeting wins",
			input: "Buenas tardes, le comparto los precios.",
			in:    Input{},
			want:  ", le comparto los precios.",
		},
		{
			name:  "word boundary protects other words",
			input: "Holanda es un país.",
			in:    Input{},
			want:  "Holanda es un país.",
		},
		{
			name:  "english greeting",
			input: "Hello! We open at 9am.",
			in:    Input{English: true},
			want:  "! We open at 9am.",
		},
		{
			name:  "no greeting untouched",
			input: "El horario es de 9 a 18.",
			in:    Input{},
			want:  "El horario es de 9 a 18.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripLeadingGreeting(tt.input, tt.in); got != tt.want {
				t.Errorf("StripLeadingGreeting(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTrimLeadingPunct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{", las clases cuestan $200.", "las clases cuestan $200."},
		{"! El horario es de 9 a 18.", "El horario es de 9 a 18."},
		{"... y más", "y más"},
		{"sin cambios", "sin cambios"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := TrimLeadingPunct(tt.input, Input{}); got != tt.want {
			t.Errorf("TrimLeadingPunct(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCapitalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"las clases cuestan $200.", "Las clases cuestan $200."},
		{"él ya pagó", "Él ya pagó"},
		{"Ya en mayúscula", "Ya en mayúscula"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Capitalize(tt.input, Input{}); got != tt.want {
			t.Errorf("Capitalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestEnsureTerminalPunct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"appends period", "El horario es de 9 a 18", "El horario es de 9 a 18."},
		{"period kept", "Listo.", "Listo."},
		{"question kept", "¿Te interesa?", "¿Te interesa?"},
		{"exclamation kept", "¡Claro!", "¡Claro!"},
		{"emoji kept", "Nos vemos pronto 😊", "Nos vemos pronto 😊"},
		{"checkmark kept", "Registrado ✅", "Registrado ✅"},
		{"empty untouched", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EnsureTerminalPunct(tt.input, Input{}); got != tt.want {
				t.Errorf("EnsureTerminalPunct(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
