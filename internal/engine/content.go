package engine

import "fmt"

// Selection ids. The numeric prefixes group ids by the menu that issued
// them; date rows carry their payload after the prefix (see dates.go).
const (
	SelBookAppointment = "00_book_appointment"
	SelFAQ             = "00_faq"
	SelHome            = "00_home"

	SelApptToday    = "appt_today"
	SelApptTomorrow = "appt_tomorrow"
	SelApptPickDay  = "appt_pick_day"

	SelSetFullDayLeave = "01_set_full_day_leave"
	SelSetPartialLeave = "01_set_partial_leave"
)

const (
	welcomeBody     = "Hi! I'm the clinic assistant. How can I help you today?"
	dayPromptBody   = "When would you like to come in?"
	timePromptBody  = "Pick a time that works for you."
	pickDayBody     = "Which day works best for you?"
	namePromptBody  = "Great! What's your name?"
	nameRetryBody   = "Please send your full name as text."
	phonePromptBody = "And your phone number, please?"
	phoneRetryBody  = "That doesn't look like a phone number. Please send a number with at least 10 digits."
	faqMenuBody     = "Here are some common questions. Pick one:"
	apologyBody     = "Sorry, I couldn't process that right now. Please try again in a moment."

	adminMenuBody      = "What would you like to do?"
	adminDateListBody  = "Pick a date:"
	adminSlotRetryBody = "I couldn't read those times. Please resend them, e.g. \"9am to 1pm and 3pm to 5pm\"."
	persistRetryBody   = "Something went wrong saving that. Please try again."
)

// mainMenuButtons are the two primary entries offered after every
// answered question and completed flow.
func mainMenuButtons() []Button {
	return []Button{
		{ID: SelBookAppointment, Title: "Book Appointment"},
		{ID: SelFAQ, Title: "FAQs"},
	}
}

func dayButtons() []Button {
	return []Button{
		{ID: SelApptToday, Title: "Today"},
		{ID: SelApptTomorrow, Title: "Tomorrow"},
		{ID: SelApptPickDay, Title: "Pick a day"},
	}
}

func adminMenuButtons() []Button {
	return []Button{
		{ID: SelSetFullDayLeave, Title: "Set Full day Leave"},
		{ID: SelSetPartialLeave, Title: "Set Partial Leave"},
	}
}

// timeSlots is the fixed list offered for every day. Slots are not
// fetched per-day; this is a known simplification carried deliberately.
var timeSlots = []Row{
	{ID: "slot_1000", Title: "10:00 AM"},
	{ID: "slot_1130", Title: "11:30 AM"},
	{ID: "slot_1300", Title: "01:00 PM"},
	{ID: "slot_1500", Title: "03:00 PM"},
	{ID: "slot_1700", Title: "05:00 PM"},
	{ID: "slot_1830", Title: "06:30 PM"},
}

func timeSlotTitle(id string) (string, bool) {
	for _, slot := range timeSlots {
		if slot.ID == id {
			return slot.Title, true
		}
	}
	return "", false
}

// faqTopics maps list row ids to canned answers.
var faqTopics = []struct {
	Row    Row
	Answer string
}{
	{
		Row:    Row{ID: "faq_hours", Title: "Clinic hours", Description: "When are we open"},
		Answer: "We're open Monday to Saturday, 10:00 AM to 7:00 PM. Closed on Sundays.",
	},
	{
		Row:    Row{ID: "faq_location", Title: "Location", Description: "Where to find us"},
		Answer: "We're at 2nd Floor, Lakeview Plaza, MG Road. There's parking behind the building.",
	},
	{
		Row:    Row{ID: "faq_services", Title: "Services", Description: "What we offer"},
		Answer: "We offer general consultations, dental checkups, cleanings, fillings, and root canal treatment.",
	},
	{
		Row:    Row{ID: "faq_fees", Title: "Consultation fee", Description: "What a visit costs"},
		Answer: "A standard consultation is ₹500. Procedure costs depend on the treatment; the doctor will give you an estimate first.",
	},
}

func faqRows() []Row {
	rows := make([]Row, 0, len(faqTopics))
	for _, t := range faqTopics {
		rows = append(rows, t.Row)
	}
	return rows
}

func faqAnswer(id string) (string, bool) {
	for _, t := range faqTopics {
		if t.Row.ID == id {
			return t.Answer, true
		}
	}
	return "", false
}

// knowledgeDoc is the fixed document the Q&A prompt is grounded on.
const knowledgeDoc = `You are the WhatsApp assistant for a small clinic.
Clinic hours: Monday to Saturday, 10:00 AM to 7:00 PM. Closed Sundays.
Address: 2nd Floor, Lakeview Plaza, MG Road.
Services: general consultations, dental checkups, cleanings, fillings, root canal treatment.
Consultation fee: 500 rupees. Procedure costs are estimated by the doctor before treatment.
Appointments can be booked right here in this chat.
Keep answers short, friendly and factual. If you don't know, say so and suggest calling the clinic.`

func qaPrompt(question string) string {
	return fmt.Sprintf("%s\n\nPatient question: %s\n\nAnswer:", knowledgeDoc, question)
}

// slotParsePrompt demands machine-readable output only; the reply is
// parsed as a JSON array of {start,end} pairs.
func slotParsePrompt(text string) string {
	return fmt.Sprintf(`Convert the following availability description into time ranges.
Respond with ONLY a JSON array of objects with "start" and "end" keys in 24-hour HH:MM format.
No prose, no markdown, nothing outside the JSON array.
Example: [{"start":"09:00","end":"13:00"}]

Availability: %s`, text)
}
