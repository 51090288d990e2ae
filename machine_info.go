package statemill

import "fmt"

// Info returns a snapshot of the machine's configuration for introspection
// and graph export.
func (m *Machine[TState, TTrigger]) Info() *MachineInfo {
	stateInfos := make(map[TState]*StateInfo, len(m.representations))

	for state, rep := range m.representations {
		stateInfos[state] = m.stateInfo(rep)
	}
	for state, rep := range m.representations {
		m.linkStateInfo(stateInfos[state], rep, stateInfos)
	}

	states := make([]*StateInfo, 0, len(stateInfos))
	for _, info := range stateInfos {
		states = append(states, info)
	}

	return &MachineInfo{
		InitialState: stateInfos[m.initialState],
		States:       states,
		StateType:    fmt.Sprintf("%T", m.initialState),
		TriggerType:  fmt.Sprintf("%T", *new(TTrigger)),
	}
}

// triggerInfo describes a trigger together with its registered parameter
// signatures.
func (m *Machine[TState, TTrigger]) triggerInfo(trigger TTrigger) TriggerInfo {
	info := TriggerInfo{UnderlyingTrigger: trigger}
	for _, p := range m.parameterSets[trigger] {
		info.ParameterTypes = append(info.ParameterTypes, p.Key().Signature())
	}
	return info
}

func (m *Machine[TState, TTrigger]) stateInfo(rep *stateRepresentation[TState, TTrigger]) *StateInfo {
	var ignored []IgnoredTransitionInfo
	for trigger, behaviours := range rep.triggerBehaviours {
		for _, b := range behaviours {
			if _, ok := b.(*ignoredBehaviour[TState, TTrigger]); ok {
				ignored = append(ignored, IgnoredTransitionInfo{
					transitionInfoBase: transitionInfoBase{
						Trigger:         m.triggerInfo(trigger),
						GuardConditions: guardInfos(b.guard()),
					},
				})
			}
		}
	}

	entryActions := make([]ActionInfo, len(rep.entryActions))
	for i, a := range rep.entryActions {
		info := ActionInfo{InvocationInfo: a.description}
		if a.fromTrigger != nil {
			info.FromTrigger = *a.fromTrigger
		}
		entryActions[i] = info
	}

	exitActions := make([]InvocationInfo, len(rep.exitActions))
	for i, a := range rep.exitActions {
		exitActions[i] = a.description
	}

	activateActions := make([]InvocationInfo, len(rep.activateActions))
	for i, a := range rep.activateActions {
		activateActions[i] = a.description
	}

	deactivateActions := make([]InvocationInfo, len(rep.deactivateActions))
	for i, a := range rep.deactivateActions {
		deactivateActions[i] = a.description
	}

	return &StateInfo{
		UnderlyingState:   rep.state,
		IgnoredTriggers:   ignored,
		EntryActions:      entryActions,
		ExitActions:       exitActions,
		ActivateActions:   activateActions,
		DeactivateActions: deactivateActions,
	}
}

func (m *Machine[TState, TTrigger]) linkStateInfo(
	info *StateInfo,
	rep *stateRepresentation[TState, TTrigger],
	stateInfos map[TState]*StateInfo,
) {
	if rep.superstate != nil {
		if superInfo, ok := stateInfos[rep.superstate.state]; ok {
			info.Superstate = superInfo
		}
	}

	for _, sub := range rep.substates {
		if subInfo, ok := stateInfos[sub.state]; ok {
			info.Substates = append(info.Substates, subInfo)
		}
	}

	for trigger, behaviours := range rep.triggerBehaviours {
		for _, behaviour := range behaviours {
			switch b := behaviour.(type) {
			case *transitioningBehaviour[TState, TTrigger]:
				if destInfo, ok := stateInfos[b.destination]; ok {
					info.FixedTransitions = append(info.FixedTransitions, FixedTransitionInfo{
						transitionInfoBase: transitionInfoBase{
							Trigger:         m.triggerInfo(trigger),
							GuardConditions: guardInfos(behaviour.guard()),
						},
						DestinationState: destInfo,
					})
				}
			case *reentryBehaviour[TState, TTrigger]:
				if destInfo, ok := stateInfos[b.destination]; ok {
					info.FixedTransitions = append(info.FixedTransitions, FixedTransitionInfo{
						transitionInfoBase: transitionInfoBase{
							Trigger:         m.triggerInfo(trigger),
							GuardConditions: guardInfos(behaviour.guard()),
						},
						DestinationState: destInfo,
					})
				}
			case *internalBehaviour[TState, TTrigger]:
				if destInfo, ok := stateInfos[rep.state]; ok {
					info.FixedTransitions = append(info.FixedTransitions, FixedTransitionInfo{
						transitionInfoBase: transitionInfoBase{
							Trigger:              m.triggerInfo(trigger),
							GuardConditions:      guardInfos(behaviour.guard()),
							IsInternalTransition: true,
						},
						DestinationState: destInfo,
					})
				}
			case *dynamicBehaviour[TState, TTrigger]:
				dyn := b.info
				dyn.Trigger = m.triggerInfo(trigger)
				info.DynamicTransitions = append(info.DynamicTransitions, dyn)
			}
		}
	}
}

func guardInfos(guard TransitionGuard) []InvocationInfo {
	if len(guard.Conditions) == 0 {
		return nil
	}
	result := make([]InvocationInfo, len(guard.Conditions))
	for i, c := range guard.Conditions {
		result[i] = c.MethodDescription()
	}
	return result
}
