package randomname

var defaultAdjectives = []string{
	"happy", "brave", "quick", "gentle", "calm", "bright", "clever", "bold",
	"eager", "fierce", "jolly", "kind", "lively", "merry", "noble", "proud",
	"quiet", "swift", "warm", "wise", "witty", "zesty", "daring", "fancy",
	"honest", "keen", "loyal", "mighty", "patient", "silent",
}

var defaultColors = []string{
	"red", "blue", "green", "purple", "amber", "coral", "crimson", "cyan",
	"golden", "indigo", "ivory", "jade", "lavender", "magenta", "olive",
	"pearl", "pink", "ruby", "scarlet", "silver", "teal", "violet", "white",
}

var defaultNouns = []string{
	"elephant", "mountain", "river", "dragon", "whale", "fox", "lion",
	"dolphin", "rabbit", "turtle", "falcon", "glacier", "harbor", "island",
	"lantern", "meadow", "nebula", "ocean", "panther", "quartz", "raven",
	"sparrow", "thunder", "valley", "willow", "zephyr", "badger", "comet",
	"ember", "forest",
}

var defaultSizes = []string{
	"tiny", "small", "large", "huge", "grand", "mini", "giant", "vast",
	"compact", "mighty",
}
