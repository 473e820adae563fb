package lesson

// Speaker identifies one of the two fixed dialogue characters.
type Speaker string

const (
	SpeakerMira    Speaker = "Mira"
	SpeakerMichael Speaker = "Michael"
)

// String returns the speaker name as used in dialogue documents.
func (s Speaker) String() string {
	return string(s)
}

// Valid reports whether the speaker is one of the known characters.
func (s Speaker) Valid() bool {
	return s == SpeakerMira || s == SpeakerMichael
}

// Gender is used to pick a cached voice for shared vocabulary audio.
type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

// Gender returns the voice gender for the speaker. Unknown speakers fall
// back to the male voice so a render never stalls on a tagging mistake.
func (s Speaker) Gender() Gender {
	if s == SpeakerMira {
		return GenderFemale
	}
	return GenderMale
}
