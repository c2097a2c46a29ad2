package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"agronomy/pkg/logging"
	"agronomy/pkg/masterdata"
	"agronomy/pkg/masterdata/service"
	"agronomy/pkg/masterdata/serviceImp"
	"agronomy/pkg/metrics"
)

type app struct {
	v   *viper.Viper
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: logging.Discard()}
	root := &cobra.Command{
		Use:           "ntester",
		Short:         "N-Tester top-up lookup and nutrient classification",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(a.v.GetString("loglevel"), false)
			if err != nil {
				return err
			}
			l.SetOutput(cmd.ErrOrStderr())
			a.log = l
			return nil
		},
	}
	root.PersistentFlags().String("masterdata", "", "YAML master data document (default: built-in tables)")
	root.PersistentFlags().StringP("loglevel", "l", "warn", "Set log level. Available: debug, info, warn, error, fatal")
	_ = a.v.BindPFlag("masterdata", root.PersistentFlags().Lookup("masterdata"))
	_ = a.v.BindPFlag("loglevel", root.PersistentFlags().Lookup("loglevel"))
	_ = a.v.BindEnv("masterdata", "MASTERDATA_PATH")
	_ = a.v.BindEnv("loglevel", "LOG_LEVEL")

	root.AddCommand(a.lookupCmd(), a.classifyCmd(), a.validateCmd(), a.exportCmd())
	return root
}

// store loads the document named by --masterdata or MASTERDATA_PATH.
func (a *app) store() (*masterdata.Store, error) {
	doc, err := masterdata.DefaultDocument()
	if path := a.v.GetString("masterdata"); path != "" {
		doc, err = masterdata.LoadDocumentFile(path)
	}
	if err != nil {
		return nil, err
	}
	s := masterdata.NewStore()
	if err := s.Apply(doc); err != nil {
		return nil, err
	}
	return s, nil
}

func (a *app) service() (service.MasterDataService, error) {
	s, err := a.store()
	if err != nil {
		return nil, err
	}
	return serviceImp.NewMasterDataService(s, metrics.NewUnregistered(), a.log), nil
}
