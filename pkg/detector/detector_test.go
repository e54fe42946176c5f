package detector

import "testing"

func TestLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"english", "Preheat the oven and whisk the eggs with the sugar until the mixture is pale and fluffy.", "en"},
		{"french", "Préchauffez le four et fouettez les œufs avec le sucre jusqu'à ce que le mélange blanchisse.", "fr"},
		{"german", "Den Ofen vorheizen und die Eier mit dem Zucker schaumig schlagen, bis die Masse hell ist.", "de"},
		{"spanish", "Precalienta el horno y bate los huevos con el azúcar hasta que la mezcla esté espumosa.", "es"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Language(tt.text)
			if !ok {
				t.Fatalf("Language() found nothing for %q", tt.text)
			}
			if got.Code != tt.want {
				t.Errorf("Language() = %q, want %q", got.Code, tt.want)
			}
			if got.Confidence <= 0 || got.Confidence > 1 {
				t.Errorf("Confidence = %v, want (0, 1]", got.Confidence)
			}
		})
	}
}

func TestLanguage_TooShort(t *testing.T) {
	for _, text := range []string{"", "   ", "Mix well."} {
		if _, ok := Language(text); ok {
			t.Errorf("Language(%q) reported a language", text)
		}
	}
}
