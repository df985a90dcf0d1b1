package humanizer

// Transitions are sentence connectors that read as machine-written. They are
// removed wherever they appear, together with a trailing comma or period.
// Longer phrases come first so that "It is worth noting that" wins over
// "It is worth noting".
var Transitions = []string{
	"It is worth noting that", "It should be noted that",
	"It is worth noting", "It should be noted",
	"In conclusion", "In summary", "To summarize",
	"One might argue", "One could say",
	"In essence", "Essentially", "Fundamentally",
	"Moreover", "Furthermore", "Additionally", "Indeed", "Notably",
	"However", "Nevertheless", "Nonetheless",
	"Consequently", "Therefore", "Thus", "Hence", "Accordingly",
	"Firstly", "Secondly", "Subsequently",
}

// Openings are stock reply openers. They only count at the very start of the
// text.
var Openings = []string{
	"Great point!", "Excellent question!",
	"I think", "I believe",
	"Absolutely!", "Definitely!",
	"Interesting", "Fascinating",
	"Fair enough", "That's true",
	"Well,", "So,", "Oh,", "Ah,",
	"Let's dive in", "Let's explore", "Let's delve into",
	"Indeed,", "Certainly,",
}

// Substitution is one entry of a one-to-one replacement table. Phrase is the
// literal tell; Pattern, when set, is a regular expression that also covers
// its spelling variants. An empty Replacement deletes the match.
type Substitution struct {
	Phrase      string
	Pattern     string
	Replacement string
}

// Cliches are marketing-speak phrases. Order matters: the longer "unlock the
// potential of" must run before the bare "unlock" and "the potential".
var Cliches = []Substitution{
	{Phrase: "Unlock the potential of", Pattern: `unlock(?:ing)? the (?:potential|power) of`, Replacement: ""},
	{Phrase: "Harness the power", Pattern: `harness(?:ing)? the power(?: of)?`, Replacement: "use"},
	{Phrase: "the power of", Replacement: ""},
	{Phrase: "the potential", Replacement: "the chance"},
	{Phrase: "Unlock", Replacement: "open"},
	{Phrase: "Unleash", Replacement: "release"},
	{Phrase: "Revolutionary", Replacement: "new"},
	{Phrase: "Revolutionize", Replacement: "change"},
	{Phrase: "Game-changer", Pattern: `game[- ]?changer`, Replacement: "big deal"},
	{Phrase: "Cutting-edge", Pattern: `cutting[- ]?edge`, Replacement: "new"},
	{Phrase: "State-of-the-art", Pattern: `state[- ]?of[- ]?the[- ]?art`, Replacement: "latest"},
	{Phrase: "Leverage", Replacement: "use"},
	{Phrase: "Optimize", Replacement: "improve"},
	{Phrase: "Facilitate", Replacement: "help"},
	{Phrase: "Streamline", Replacement: "simplify"},
	{Phrase: "Paradigm shift", Replacement: "big change"},
	{Phrase: "Synergy", Replacement: "teamwork"},
	{Phrase: "Best practices", Replacement: "good habits"},
	{Phrase: "Robust", Replacement: "solid"},
	{Phrase: "Comprehensive", Replacement: "complete"},
	{Phrase: "Innovative", Replacement: "new"},
	{Phrase: "Dynamic", Replacement: "lively"},
	{Phrase: "Seamless", Pattern: `seamless(ly)?`, Replacement: "smooth${1}"},
	{Phrase: "Transformative", Replacement: "big"},
	{Phrase: "Groundbreaking", Replacement: "new"},
	{Phrase: "Delve into", Replacement: "look at"},
	{Phrase: "Navigate the complexities", Pattern: `navigate the complexities(?: of)?`, Replacement: "deal with"},
	{Phrase: "In today's digital age", Replacement: "today"},
	{Phrase: "In the modern era", Replacement: "today"},
	{Phrase: "At the forefront", Pattern: `at the forefront(?: of)?`, Replacement: "leading"},
	{Phrase: "Pave the way", Replacement: "open the door"},
	{Phrase: "Capitalize on", Replacement: "use"},
	{Phrase: "Foster a culture", Replacement: "build a culture"},
	{Phrase: "Drive innovation", Replacement: "try new things"},
	{Phrase: "It's important to note that", Pattern: `it(?:['’]s| is) important to note(?: that)?`, Replacement: ""},
	{Phrase: "Rest assured", Replacement: "trust me"},
	{Phrase: "Look no further", Pattern: `look no further(?: than)?`, Replacement: "try"},
}

// BannedWords are single words over-used by language models, each with a
// plainer substitute. "Moreover" is handled by Transitions.
var BannedWords = []Substitution{
	{Phrase: "Crucial", Replacement: "important"},
	{Phrase: "Pivotal", Replacement: "key"},
	{Phrase: "Vital", Replacement: "important"},
	{Phrase: "Essential", Replacement: "needed"},
	{Phrase: "Paramount", Replacement: "top"},
	{Phrase: "Meticulous", Replacement: "careful"},
	{Phrase: "Intricate", Replacement: "complex"},
	{Phrase: "Nuanced", Replacement: "subtle"},
	{Phrase: "Realm", Replacement: "area"},
	{Phrase: "Landscape", Replacement: "space"},
	{Phrase: "Arena", Replacement: "scene"},
	{Phrase: "Domain", Replacement: "field"},
	{Phrase: "Embark", Replacement: "start"},
	{Phrase: "Journey", Replacement: "process"},
	{Phrase: "Endeavor", Replacement: "effort"},
	{Phrase: "Venture", Replacement: "project"},
	{Phrase: "Elevate", Replacement: "improve"},
	{Phrase: "Amplify", Replacement: "increase"},
	{Phrase: "Enhance", Replacement: "improve"},
	{Phrase: "Bolster", Replacement: "support"},
	{Phrase: "Tapestry", Replacement: "mix"},
	{Phrase: "Mosaic", Replacement: "mix"},
	{Phrase: "Spectrum", Replacement: "range"},
	{Phrase: "Resonate", Replacement: "connect"},
	{Phrase: "Underscore", Replacement: "show"},
	{Phrase: "Highlight", Replacement: "show"},
	{Phrase: "Albeit", Replacement: "though"},
	{Phrase: "Wherein", Replacement: "where"},
	{Phrase: "Myriad", Replacement: "many"},
	{Phrase: "Plethora", Replacement: "lots of"},
	{Phrase: "Multifaceted", Replacement: "complex"},
}

// Construction is a sentence shape typical of generated text. Rewrite, when
// non-empty, is the regexp template the match collapses to; constructions
// with an empty Rewrite are only detected.
type Construction struct {
	Name    string
	Pattern string
	Rewrite string
}

var Constructions = []Construction{
	{Name: "not just X, it's Y", Pattern: `it['’]s not just (.+), it['’]s (.+)`, Rewrite: "${2}"},
	{Name: "the result? X", Pattern: `the result\? (.+)`, Rewrite: "${1}"},
	{Name: "here's the thing: X", Pattern: `but here['’]s the thing: (.+)`, Rewrite: "${1}"},
	{Name: "whether it's X, Y, or Z", Pattern: `whether it['’]s .+, .+, or .+`},
	{Name: "from X to Y, Z", Pattern: `from .+ to .+, .+`},
}

// Disclaimers are AI self-references and hedges.
var Disclaimers = []string{
	"as an ai", "as a language model", "as an ai language model",
	"i'm just an ai", "i am just an ai", "i'm an ai",
	"i cannot", "i can't provide", "i am unable to", "i'm unable to",
	"i'm not able to", "i do not have the ability",
	"i don't have personal", "i do not have personal",
	"i don't have access to", "i do not have access to",
	"please note that", "it's important to remember",
	"it is important to remember", "disclaimer:",
}

// Contractions applied by AddNaturalVariations. The first tier fires with
// probability equal to the intensity, the casual tier with two thirds of it.
var (
	contractions = [][2]string{
		{"I am", "I'm"}, {"I have", "I've"}, {"I will", "I'll"},
		{"do not", "don't"}, {"does not", "doesn't"}, {"did not", "didn't"},
		{"cannot", "can't"}, {"can not", "can't"}, {"will not", "won't"},
		{"would not", "wouldn't"}, {"should not", "shouldn't"},
		{"is not", "isn't"}, {"are not", "aren't"},
		{"it is", "it's"}, {"that is", "that's"},
		{"you are", "you're"}, {"we are", "we're"}, {"they are", "they're"},
	}

	casualContractions = [][2]string{
		{"going to", "gonna"}, {"want to", "wanna"}, {"got to", "gotta"},
		{"kind of", "kinda"}, {"sort of", "sorta"},
	}
)

// TwitterMaxLength is the character limit below which semicolons read as
// too formal for a reply.
const TwitterMaxLength = 280

// casualTierFactor scales intensity for the casual contraction tier.
const casualTierFactor = 0.67
