package textnorm

// englishStopwords is the standard English function-word list. Content words
// stay in so that technology names ("go", "rust", "swift") survive
// normalization and remain matchable.
var englishStopwords = map[string]bool{
	"i": true, "me": true, "my": true, "myself": true, "we": true,
	"our": true, "ours": true, "ourselves": true, "you": true, "your": true,
	"yours": true, "yourself": true, "yourselves": true, "he": true, "him": true,
	"his": true, "himself": true, "she": true, "her": true, "hers": true,
	"herself": true, "it": true, "its": true, "itself": true, "they": true,
	"them": true, "their": true, "theirs": true, "themselves": true, "what": true,
	"which": true, "who": true, "whom": true, "this": true, "that": true,
	"these": true, "those": true, "am": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "having": true, "do": true,
	"does": true, "did": true, "doing": true, "would": true, "should": true,
	"could": true, "ought": true, "a": true, "an": true, "the": true,
	"and": true, "but": true, "if": true, "or": true, "because": true,
	"as": true, "until": true, "while": true, "of": true, "at": true,
	"by": true, "for": true, "with": true, "about": true, "against": true,
	"between": true, "into": true, "through": true, "during": true, "before": true,
	"after": true, "above": true, "below": true, "to": true, "from": true,
	"up": true, "down": true, "in": true, "out": true, "on": true,
	"off": true, "over": true, "under": true, "again": true, "further": true,
	"then": true, "once": true, "here": true, "there": true, "when": true,
	"where": true, "why": true, "how": true, "all": true, "any": true,
	"both": true, "each": true, "few": true, "more": true, "most": true,
	"other": true, "some": true, "such": true, "no": true, "nor": true,
	"not": true, "only": true, "own": true, "same": true, "so": true,
	"than": true, "too": true, "very": true, "cannot": true,
	"i'm": true, "you're": true, "he's": true, "she's": true, "it's": true,
	"we're": true, "they're": true, "i've": true, "you've": true, "we've": true,
	"they've": true, "i'd": true, "you'd": true, "he'd": true, "she'd": true,
	"we'd": true, "they'd": true, "i'll": true, "you'll": true, "he'll": true,
	"she'll": true, "we'll": true, "they'll": true, "isn't": true, "aren't": true,
	"wasn't": true, "weren't": true, "hasn't": true, "haven't": true, "hadn't": true,
	"doesn't": true, "don't": true, "didn't": true, "won't": true, "wouldn't": true,
	"shan't": true, "shouldn't": true, "can't": true, "couldn't": true, "mustn't": true,
	"let's": true, "that's": true, "who's": true, "what's": true, "here's": true,
	"there's": true, "when's": true, "where's": true, "why's": true, "how's": true,
}
