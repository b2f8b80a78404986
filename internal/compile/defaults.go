package compile

import (
	"fmt"
	"strings"

	"github.com/microsmart/mentorflow/internal/models"
)

// defaultVideos is the standing educational playlist included when
// section 8 produced no curated recommendations of its own.
func defaultVideos() []models.VideoRecommendation {
	return []models.VideoRecommendation{
		{
			Title:     "Ψηφιακός Μετασχηματισμός για Μικρομεσαίες Επιχειρήσεις",
			Channel:   "Ελληνική Αναπτυξιακή Τράπεζα",
			URL:       "https://www.youtube.com/watch?v=wTKmLAGt5mM",
			Duration:  "18:24",
			Topic:     "Ψηφιοποίηση",
			Relevance: "Βασικό υπόβαθρο για τις δράσεις ψηφιακής αναβάθμισης της ενότητας 8.",
		},
		{
			Title:     "Χρηματοδοτικά Εργαλεία ΕΣΠΑ 2021-2027",
			Channel:   "ΕΣΠΑ",
			URL:       "https://www.youtube.com/watch?v=3fQdVSiJmCk",
			Duration:  "25:10",
			Topic:     "Χρηματοδότηση",
			Relevance: "Συνδέεται με τις προτάσεις χρηματοδότησης του πλάνου δράσης.",
		},
		{
			Title:     "Βελτίωση Πιστοληπτικής Ικανότητας Επιχείρησης",
			Channel:   "Επιχειρείν",
			URL:       "https://www.youtube.com/watch?v=q8v2YdMkQ1A",
			Duration:  "14:02",
			Topic:     "Πιστοληπτική ικανότητα",
			Relevance: "Αφορά άμεσα την αξιολόγηση πιστωτικού κινδύνου.",
		},
		{
			Title:     "Βιωσιμότητα και ESG για Μικρές Επιχειρήσεις",
			Channel:   "ΣΕΒ",
			URL:       "https://www.youtube.com/watch?v=N1c0mGkT6kY",
			Duration:  "21:45",
			Topic:     "ESG",
			Relevance: "Υποστηρίζει τις συστάσεις ενεργειακής μετάβασης.",
		},
		{
			Title:     "Ψηφιακό Μάρκετινγκ με Μικρό Προϋπολογισμό",
			Channel:   "Marketing Greece",
			URL:       "https://www.youtube.com/watch?v=K5w9VYkBgO4",
			Duration:  "16:33",
			Topic:     "Μάρκετινγκ",
			Relevance: "Καλύπτει το σκέλος ψηφιακής παρουσίας και προβολής.",
		},
	}
}

// defaultLegalLinks lists the public registries and portals every report
// references regardless of section outcomes.
func defaultLegalLinks() []models.LegalLink {
	return []models.LegalLink{
		{Title: "ΑΑΔΕ - myAADE", URL: "https://1521.aade.gr/", Description: "Φορολογικές υποχρεώσεις και δηλώσεις."},
		{Title: "e-ΕΦΚΑ", URL: "https://www.efka.gov.gr/", Description: "Ασφαλιστικές εισφορές και ενημερότητα."},
		{Title: "ΓΕΜΗ", URL: "https://www.businessportal.gr/", Description: "Γενικό Εμπορικό Μητρώο, δημοσιότητα εταιρικών πράξεων."},
		{Title: "ΕΣΠΑ", URL: "https://www.espa.gr/", Description: "Ενεργά προγράμματα χρηματοδότησης και επιδοτήσεων."},
	}
}

// executiveSummary renders the fixed-structure summary block that heads
// the report.
func executiveSummary(meta models.CompanyMetadata) string {
	var sb strings.Builder
	sb.WriteString("<div class=\"executive-summary\">")
	sb.WriteString("<h2>Συνοπτική Παρουσίαση</h2>")
	name := meta.CompanyName
	if name == "" {
		name = "Η επιχείρηση"
	}
	sb.WriteString(fmt.Sprintf("<p>%s αξιολογήθηκε βάσει του συνόλου των τεκμηρίων που υποβλήθηκαν στο πλαίσιο του προγράμματος mentoring.</p>", name))
	if meta.AFM != "" {
		sb.WriteString(fmt.Sprintf("<p>ΑΦΜ: %s</p>", meta.AFM))
	}
	if meta.KAD != "" {
		sb.WriteString(fmt.Sprintf("<p>ΚΑΔ: %s</p>", meta.KAD))
	}
	sb.WriteString("<p>Η έκθεση περιλαμβάνει έντεκα θεματικές ενότητες με δείκτες, πίνακες και προτεινόμενες δράσεις.</p>")
	sb.WriteString("</div>")
	return sb.String()
}
