package parser

// translatableFields are the element names whose text is shown to players.
var translatableFields = map[string]struct{}{
	"label":                            {},
	"labelShort":                       {},
	"labelPlural":                      {},
	"labelMale":                        {},
	"labelFemale":                      {},
	"labelMechanoids":                  {},
	"labelSocial":                      {},
	"labelShortAdj":                    {},
	"labelPrefix":                      {},
	"labelNoun":                        {},
	"labelNounPretty":                  {},
	"labelInBrackets":                  {},
	"labelTended":                      {},
	"labelTendedWell":                  {},
	"labelTendedInner":                 {},
	"labelTendedWellInner":             {},
	"labelSolidTended":                 {},
	"labelSolidTendedWell":             {},
	"description":                      {},
	"Description":                      {},
	"descriptionDialogue":              {},
	"descriptionExtra":                 {},
	"descriptionShort":                 {},
	"letterLabel":                      {},
	"letterText":                       {},
	"letter":                           {},
	"letterLabelEnemy":                 {},
	"letterLabelFriendly":              {},
	"arrivedLetter":                    {},
	"arrivalTextEnemy":                 {},
	"arrivalTextFriendly":              {},
	"arrivalTextExtra":                 {},
	"beginLetter":                      {},
	"beginLetterLabel":                 {},
	"discoverLetterLabel":              {},
	"discoverLetterText":               {},
	"completedLetterTitle":             {},
	"completedLetterText":              {},
	"approachOrderString":              {},
	"approachingReportString":          {},
	"theme":                            {},
	"themeDesc":                        {},
	"outComeFirstPlace":                {},
	"outcomeFirstLoser":                {},
	"outComeFirstOther":                {},
	"skillLabel":                       {},
	"text":                             {},
	"rejectInputMessage":               {},
	"adjective":                        {},
	"pawnLabel":                        {},
	"pawnsPlural":                      {},
	"gerundLabel":                      {},
	"gerund":                           {},
	"verb":                             {},
	"reportString":                     {},
	"jobString":                        {},
	"jobReportOverride":                {},
	"deathMessage":                     {},
	"recoveryMessage":                  {},
	"endMessage":                       {},
	"notifyMessage":                    {},
	"message":                          {},
	"messageOnDisappear":               {},
	"successfullyRemovedHediffMessage": {},
	"leaderTitle":                      {},
	"quotation":                        {},
	"baseInspectLine":                  {},
	"inspectString":                    {},
	"graphLabelY":                      {},
	"fixedName":                        {},
	"name":                             {},
	"helpText":                         {},
	"oldLabel":                         {},
	"customLabel":                      {},
	"customSummary":                    {},
	"destroyedLabel":                   {},
	"destroyedOutLabel":                {},
	"summary":                          {},
	"symbol":                           {},
	"useLabel":                         {},
	"extraTooltip":                     {},
	"instantlyPermanentLabel":          {},
	"permanentLabel":                   {},
	"fuelLabel":                        {},
}

// IsTranslatable reports whether an element with this tag holds player-facing
// text.
func IsTranslatable(tag string) bool {
	_, ok := translatableFields[tag]
	return ok
}
