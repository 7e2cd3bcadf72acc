package main

import (
	"context"

	"github.com/darasahq/darasa/core/roster"
)

var (
	seedStudents = []roster.Student{
		{Name: "Amani Kabila", Email: "amani.kabila@school.cd", ClassName: "Form 1A"},
		{Name: "Bahati Mwamba", Email: "bahati.mwamba@school.cd", ClassName: "Form 1A"},
		{Name: "Chiku Ilunga", Email: "chiku.ilunga@school.cd", ClassName: "Form 1B"},
		{Name: "Dieudonne Kasongo", Email: "dieudonne.kasongo@school.cd", ClassName: "Form 1B"},
		{Name: "Esperance Tshibanda", Email: "esperance.tshibanda@school.cd", ClassName: "Form 2A"},
		{Name: "Furaha Ngoy", Email: "furaha.ngoy@school.cd", ClassName: "Form 2A"},
	}
	seedTeachers = []roster.Teacher{
		{Name: "Mr. Mutombo", Email: "mutombo@school.cd", Subject: "Mathematics"},
		{Name: "Mme. Kalala", Email: "kalala@school.cd", Subject: "French"},
		{Name: "Mr. Banza", Email: "banza@school.cd", Subject: "Physics"},
	}
)

// seed loads a small demo roster. Safe to run on an empty database only;
// running it twice enrolls everyone twice.
func (cli *commandLine) seed() error {
	ctx := context.Background()
	for _, std := range seedStudents {
		if _, err := cli.rosterRepo.CreateStudent(ctx, std); err != nil {
			return err
		}
	}
	for _, tch := range seedTeachers {
		if _, err := cli.rosterRepo.CreateTeacher(ctx, tch); err != nil {
			return err
		}
	}
	return nil
}
