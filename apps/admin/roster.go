package main

import (
	"context"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/roster"
)

func (cli *commandLine) addStudent(name, email, class string) error {
	_, err := cli.rosterRepo.CreateStudent(context.Background(), roster.Student{
		Name:      core.CleanString(name),
		Email:     core.CleanString(email, true /* lower */),
		ClassName: core.CleanString(class),
	})
	return err
}

func (cli *commandLine) addTeacher(name, email, subject string) error {
	_, err := cli.rosterRepo.CreateTeacher(context.Background(), roster.Teacher{
		Name:    core.CleanString(name),
		Email:   core.CleanString(email, true /* lower */),
		Subject: core.CleanString(subject),
	})
	return err
}
