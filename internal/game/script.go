package game

import (
	"chosenoffset.com/christmasbits/internal/dialog"
	"chosenoffset.com/christmasbits/internal/quest"
)

// Speaker names used by the built-in scenes.
const (
	heroName       = "Tom"
	questGiverName = "Alice"
	santaName      = "Santa"
)

var introMonologue = dialog.Frame{
	Speaker: heroName,
	Text:    "The Christmas party is about to start! As a member of the entertainment committee, let me ask Alice what else needs to be prepared.",
}

var escortLine = dialog.Frame{
	Speaker: questGiverName,
	Text:    "Everyone is waiting at the party room. Hurry up, we are taking a photo soon!",
}

var fallbackLines = []string{"Hello.", "Merry Christmas!"}

// taskScript is what a task giver says around its minigame.
type taskScript struct {
	Intro   []dialog.Frame
	Success dialog.Frame
	Failure dialog.Frame
	// Done is said once the task is complete, or anywhere in the venue.
	Done dialog.Frame
}

var taskScripts = map[quest.Task]taskScript{
	quest.TaskDecorator: {
		Intro: []dialog.Frame{
			{Speaker: heroName, Text: "Hi Roki, Alice asked me to help you decorate the venue."},
			{Speaker: "Roki", Text: "Thank you so much! I really need a hand."},
		},
		Success: dialog.Frame{Speaker: "Roki", Text: "Thanks for helping me!"},
		Failure: dialog.Frame{Speaker: "Roki", Text: "Please help me decorate..."},
		Done:    dialog.Frame{Speaker: "Roki", Text: "Thanks for helping me!"},
	},
	quest.TaskPhotographer: {
		Intro: []dialog.Frame{
			{Speaker: heroName, Text: "Hi Bob, Alice asked me to find you for the photo."},
			{Speaker: "Bob", Text: "Oh right, but I suddenly have a design review I haven't finished."},
			{Speaker: "Bob", Text: "I need to find the error in each of these three design drafts."},
			{Speaker: "Bob", Text: "Can you help me?"},
			{Speaker: heroName, Text: "Sure, I'll help you with the design review."},
		},
		Success: dialog.Frame{Speaker: "Bob", Text: "Thanks for helping me, I'll go find Alice in a bit."},
		Failure: dialog.Frame{Speaker: "Bob", Text: "I really need that review done..."},
		Done:    dialog.Frame{Speaker: "Bob", Text: "Thanks for helping me, I'll go find Alice in a bit."},
	},
	quest.TaskBartender: {
		Intro: []dialog.Frame{
			{Speaker: heroName, Text: "Alice sent me to get more drinks for the party."},
			{Speaker: "Samuel", Text: "I'm extremely busy! Can you help me make some drinks? I'll give you the recipes."},
		},
		Success: dialog.Frame{Speaker: "Samuel", Text: "Thank you!"},
		Failure: dialog.Frame{Speaker: "Samuel", Text: "You gave up."},
		Done:    dialog.Frame{Speaker: "Samuel", Text: "Thank you for helping me!"},
	},
}

var santaGreeting = dialog.Lines(santaName,
	"Hohoho, Merry Christmas!",
	"Thanks for your excellent design work this past year!",
	"It's your turn to pick a gift.",
	"Choose one from the three!",
)

var santaClosing = dialog.Lines(santaName,
	"Great choice!",
	"Thanks again for your hard work and great designs.",
	"May your wishes come true in the new year.",
	"Studio 8 thanks you! HOHOHO...",
)
