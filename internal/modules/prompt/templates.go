// README: Fixed prompt templates rendered by the compiler.
package prompt

const destinationTmpl = `You are an expert travel planner writing a practical day-by-day itinerary.
Destination: {{.City}}{{with .Region}} ({{.}}){{end}}
Travel dates: {{.Start}} to {{.End}} ({{.Days}} {{plural .Days "day" "days"}}, {{.Nights}} {{plural .Nights "night" "nights"}}).
Use what you know about {{.City}} (its neighbourhoods, how to get around, opening days and the season around {{.Start}}) to keep every day realistic. Do not write a separate introduction.`

const scheduleTmpl = `Write {{if .Chunk}}the day sections Day {{.First}} to Day {{.Last}} of a {{.Days}}-day trip{{else}}exactly {{.Days}} day {{plural .Days "section" "sections"}}{{end}}, one per day, in order:
{{range .Dates}}- Day {{.N}}: {{.Label}}
{{end}}
Start each section with a heading line of the form "## Day N: <short title>" and put nothing else on that line.
Under each heading cover Morning, Afternoon and Evening with named places, a meal suggestion and a one-line transport tip.
Do not merge days. Do not add any text before Day {{.First}} or after Day {{.Last}}.`

const interestsTmpl = `Traveler interests in priority order (higher weight means more time):
{{range .Interests}}- {{.Name}} (weight {{.Weight}})
{{end}}
Every day must include at least one activity for one of these interests. Share time across the trip in proportion to the weights{{if gt (len .Interests) 1}}, and do not spend a day on {{(index .Interests 0).Name}} alone{{end}}.`

const travelersTmpl = `Party: {{.Adults}} {{plural .Adults "adult" "adults"}}{{if .Children}} and {{.Children}} {{plural .Children "child" "children"}}{{end}}.
{{- if .Children}}
This is a family trip: prefer child-friendly venues, keep walking distances short, plan a rest break every afternoon and finish evenings early. Flag any activity unsuitable for children.
{{- else if eq .Adults 1}}
This is a solo traveler: include safe, well-connected areas and activities that are easy to join alone.
{{- else if ge .Adults 6}}
This is a group of {{.Adults}}: prefer venues that take group bookings and note where reservations are needed.
{{- else}}
Pace the days for adults with a moderate amount of walking.
{{- end}}`

const variationTmpl = `Variation seed: {{.Seed}}. Use it only to vary secondary choices (restaurants, viewpoints) between otherwise identical requests.`
