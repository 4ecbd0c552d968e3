package cmd

import (
	"flag"

	"github.com/etnz/sbudesk/config"
	"github.com/etnz/sbudesk/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the sbu command line for shell completion.
func Completion() *complete.Command {
	global := flag.NewFlagSet("sbu", flag.ContinueOnError)
	config.RegisterFlags(global)

	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: predictors(global),
	}
	for _, e := range commands() {
		fs := flag.NewFlagSet(e.cmd.Name(), flag.ContinueOnError)
		e.cmd.SetFlags(fs)
		root.Sub[e.cmd.Name()] = &complete.Command{Flags: predictors(fs), Args: arguments(e.cmd.Name())}
	}
	names := make(predict.Set, 0, len(root.Sub))
	for name := range root.Sub {
		names = append(names, name)
	}
	root.Sub["help"] = &complete.Command{Args: names}
	return root
}

// predictors maps every flag of fs to the values it accepts. Boolean flags
// take no value.
func predictors(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	fs.VisitAll(func(f *flag.Flag) {
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[f.Name] = nil
			return
		}
		switch f.Name {
		case "role":
			flags[f.Name] = predict.Set{"staff", "admin"}
		case config.KeyConfig:
			flags[f.Name] = predict.Files("*.yaml")
		case config.KeyTokenDir:
			flags[f.Name] = predict.Dirs("*")
		default:
			flags[f.Name] = predict.Something
		}
	})
	return flags
}

func arguments(name string) complete.Predictor {
	switch name {
	case "topic":
		topics, err := docs.GetAllTopics()
		if err != nil {
			return predict.Nothing
		}
		return predict.Set(topics)
	case "delete-employee", "report":
		return predict.Something
	}
	return predict.Nothing
}
