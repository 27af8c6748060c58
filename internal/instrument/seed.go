package instrument

import "fmt"

// Built-in instrument IDs.
const (
	PHQ9 = "phq9"
	GAD7 = "gad7"
	PHQ2 = "phq2"
	GAD2 = "gad2"
)

const twoWeekPreamble = "Over the last 2 weeks, how often have you been bothered by any of the following problems?"

// frequencyScale is the four-point response scale shared by the PHQ and GAD families.
func frequencyScale() []Option {
	return []Option{
		{Value: 0, Label: "Not at all"},
		{Value: 1, Label: "Several days"},
		{Value: 2, Label: "More than half the days"},
		{Value: 3, Label: "Nearly every day"},
	}
}

var phq9Items = []string{
	"Little interest or pleasure in doing things",
	"Feeling down, depressed, or hopeless",
	"Trouble falling or staying asleep, or sleeping too much",
	"Feeling tired or having little energy",
	"Poor appetite or overeating",
	"Feeling bad about yourself, or that you are a failure or have let yourself or your family down",
	"Trouble concentrating on things, such as reading the newspaper or watching television",
	"Moving or speaking so slowly that other people could have noticed, or the opposite: being so fidgety or restless that you have been moving around a lot more than usual",
	"Thoughts that you would be better off dead, or of hurting yourself in some way",
}

var gad7Items = []string{
	"Feeling nervous, anxious, or on edge",
	"Not being able to stop or control worrying",
	"Worrying too much about different things",
	"Trouble relaxing",
	"Being so restless that it is hard to sit still",
	"Becoming easily annoyed or irritable",
	"Feeling afraid, as if something awful might happen",
}

// phq9SelfHarmItem is the PHQ-9 item that raises a safety alert when endorsed.
const phq9SelfHarmItem = 9

// SelfHarmNotice accompanies an alert on the PHQ-9 self-harm item.
const SelfHarmNotice = "You indicated thoughts of being better off dead or of hurting yourself. " +
	"If you are in danger, call your local emergency number now, or call or text 988 " +
	"(Suicide & Crisis Lifeline, US) to talk with someone today."

func frequencyQuestions(items []string, critical int) []Question {
	qs := make([]Question, len(items))
	for i, text := range items {
		qs[i] = Question{
			ID:       fmt.Sprintf("q%d", i+1),
			Text:     text,
			Options:  frequencyScale(),
			Critical: i+1 == critical,
		}
		if qs[i].Critical {
			qs[i].Notice = SelfHarmNotice
		}
	}
	return qs
}

func builtins() []Instrument {
	return []Instrument{
		{
			ID:          PHQ9,
			Title:       "PHQ-9",
			Description: "Patient Health Questionnaire, nine-item depression scale",
			Preamble:    twoWeekPreamble,
			Source:      "Kroenke K, Spitzer RL, Williams JB. J Gen Intern Med. 2001;16(9):606-613",
			Questions:   frequencyQuestions(phq9Items, phq9SelfHarmItem),
			Bands: []Band{
				{Low: 0, High: 4, Label: "minimal", Summary: "Minimal depressive symptoms."},
				{Low: 5, High: 9, Label: "mild", Summary: "Mild depressive symptoms. Watchful waiting and a repeat screen at follow-up are common."},
				{Low: 10, High: 14, Label: "moderate", Summary: "Moderate depressive symptoms. Discussing a treatment plan with a clinician is recommended."},
				{Low: 15, High: 19, Label: "moderately severe", Summary: "Moderately severe depressive symptoms. Active treatment is usually recommended."},
				{Low: 20, High: 27, Label: "severe", Summary: "Severe depressive symptoms. Prompt evaluation by a clinician is recommended."},
			},
		},
		{
			ID:          GAD7,
			Title:       "GAD-7",
			Description: "Generalized Anxiety Disorder seven-item scale",
			Preamble:    twoWeekPreamble,
			Source:      "Spitzer RL, Kroenke K, Williams JB, Lowe B. Arch Intern Med. 2006;166(10):1092-1097",
			Questions:   frequencyQuestions(gad7Items, 0),
			Bands: []Band{
				{Low: 0, High: 4, Label: "minimal", Summary: "Minimal anxiety symptoms."},
				{Low: 5, High: 9, Label: "mild", Summary: "Mild anxiety symptoms. Monitoring and a repeat screen at follow-up are common."},
				{Low: 10, High: 14, Label: "moderate", Summary: "Moderate anxiety symptoms. Further evaluation by a clinician is recommended."},
				{Low: 15, High: 21, Label: "severe", Summary: "Severe anxiety symptoms. Prompt evaluation by a clinician is recommended."},
			},
		},
		{
			ID:          PHQ2,
			Title:       "PHQ-2",
			Description: "Two-item depression pre-screen (first two PHQ-9 items)",
			Preamble:    twoWeekPreamble,
			Source:      "Kroenke K, Spitzer RL, Williams JB. Med Care. 2003;41(11):1284-1292",
			Questions:   frequencyQuestions(phq9Items[:2], 0),
			Bands: []Band{
				{Low: 0, High: 2, Label: "negative screen", Summary: "Below the usual cut-off for further depression screening."},
				{Low: 3, High: 6, Label: "positive screen", Summary: "At or above the usual cut-off. Completing the full PHQ-9 is recommended."},
			},
		},
		{
			ID:          GAD2,
			Title:       "GAD-2",
			Description: "Two-item anxiety pre-screen (first two GAD-7 items)",
			Preamble:    twoWeekPreamble,
			Source:      "Kroenke K, Spitzer RL, Williams JB, Monahan PO, Lowe B. Ann Intern Med. 2007;146(5):317-325",
			Questions:   frequencyQuestions(gad7Items[:2], 0),
			Bands: []Band{
				{Low: 0, High: 2, Label: "negative screen", Summary: "Below the usual cut-off for further anxiety screening."},
				{Low: 3, High: 6, Label: "positive screen", Summary: "At or above the usual cut-off. Completing the full GAD-7 is recommended."},
			},
		},
	}
}
