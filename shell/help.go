package shell

import (
	"embed"
	"io/fs"
)

//go:embed helptext/*.txt
var helptext embed.FS

func usage() string {
	dat, err := fs.ReadFile(helptext, "helptext/usage.txt")
	if err != nil {
		return "Error loading helptext: " + err.Error()
	}
	return string(dat)
}

func usageTopic(topic string) string {
	dat, err := fs.ReadFile(helptext, "helptext/"+topic+".txt")
	if err != nil {
		return "There is no help text for the topic " + topic
	}
	return string(dat)
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(usage()), nil
	}
	return msg(usageTopic(cmd.args[0])), nil
}
