package utils

// Server-side i18n for the fixed key set the core needs: question prompts,
// placeholders, and user-facing auth messages. Screen chrome strings live in
// the UI shell, not here.

var translations = map[string]map[string]string{
	"en": {
		"health.ok": "ok",

		"questionnaire.volunteerActivities":             "What volunteer activities have you participated in?",
		"questionnaire.volunteerActivities.placeholder": "Describe your volunteer experiences...",
		"questionnaire.extracurriculars":                "What extracurricular activities are you involved in?",
		"questionnaire.extracurriculars.placeholder":    "List your activities and roles...",
		"questionnaire.collegeSetting":                  "What type of college setting do you prefer?",
		"questionnaire.collegeSize":                     "What size college are you looking for?",
		"questionnaire.environment":                     "What kind of campus environment appeals to you?",
		"questionnaire.programs":                        "Are there specific programs or resources you're looking for?",
		"questionnaire.programs.placeholder":            "e.g., Study abroad, research opportunities, internships...",
		"questionnaire.budget":                          "What is your budget range for annual tuition?",
		"questionnaire.location":                        "Do you have a preferred geographic location?",
		"questionnaire.location.placeholder":            "Enter preferred states, regions, or countries...",
		"questionnaire.housingPreference":               "What are your housing preferences?",
		"questionnaire.careerGoals":                     "What are your career goals after graduation?",
		"questionnaire.careerGoals.placeholder":         "Describe your aspirations and career path...",

		"auth.userNotFound":  "No account found for that email.",
		"auth.wrongPassword": "Incorrect email or password.",
		"auth.emailInUse":    "An account with that email already exists.",
		"auth.invalidEmail":  "That email address is not valid.",
		"auth.rateLimited":   "Too many attempts. Please try again later.",
		"auth.network":       "Could not reach the sign-in service. Check your connection.",
	},
	"es": {
		"health.ok": "ok",

		"questionnaire.volunteerActivities":             "¿En qué actividades de voluntariado has participado?",
		"questionnaire.volunteerActivities.placeholder": "Describe tus experiencias de voluntariado...",
		"questionnaire.extracurriculars":                "¿En qué actividades extracurriculares participas?",
		"questionnaire.extracurriculars.placeholder":    "Enumera tus actividades y roles...",
		"questionnaire.collegeSetting":                  "¿Qué tipo de entorno universitario prefieres?",
		"questionnaire.collegeSize":                     "¿Qué tamaño de universidad buscas?",
		"questionnaire.environment":                     "¿Qué tipo de ambiente de campus te atrae?",
		"questionnaire.programs":                        "¿Buscas programas o recursos específicos?",
		"questionnaire.programs.placeholder":            "p. ej., intercambios, investigación, prácticas...",
		"questionnaire.budget":                          "¿Cuál es tu presupuesto anual de matrícula?",
		"questionnaire.location":                        "¿Tienes una ubicación geográfica preferida?",
		"questionnaire.location.placeholder":            "Indica estados, regiones o países preferidos...",
		"questionnaire.housingPreference":               "¿Cuáles son tus preferencias de alojamiento?",
		"questionnaire.careerGoals":                     "¿Cuáles son tus metas profesionales tras graduarte?",
		"questionnaire.careerGoals.placeholder":         "Describe tus aspiraciones y trayectoria...",

		"auth.userNotFound":  "No hay ninguna cuenta con ese correo.",
		"auth.wrongPassword": "Correo o contraseña incorrectos.",
		"auth.emailInUse":    "Ya existe una cuenta con ese correo.",
		"auth.invalidEmail":  "Ese correo no es válido.",
		"auth.rateLimited":   "Demasiados intentos. Inténtalo más tarde.",
		"auth.network":       "No se pudo contactar el servicio de acceso.",
	},
}

// T returns the translated string for key in locale; falls back to English,
// then to the raw key.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := translations["en"]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}

// SupportedLocales lists the locales the core ships strings for.
func SupportedLocales() []string { return []string{"en", "es"} }
